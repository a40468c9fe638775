package constants

// 订单固定属性常量
const (
	OrderTypePreseason = "preseason"
	OrderStatusDraft   = "draft"
)

// 季节状态常量
const (
	SeasonStatusOrdering = "ordering"
	SeasonStatusClosed   = "closed"
)

// 订单编号中品牌代码的长度
const OrderBrandCodeLen = 3
