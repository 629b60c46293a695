package model

// Sale-status codes used by the show API. Codes outside this table show up
// occasionally on new projects and are reported as unknown.
var salesFlagLabels = map[int]string{
	1:   "不可售",
	2:   "预售",
	3:   "停售",
	4:   "售罄",
	5:   "不可用",
	6:   "库存紧张",
	8:   "暂时售罄",
	9:   "不在白名单",
	101: "未开始",
	102: "已结束",
	103: "未完成",
	105: "下架",
	106: "已取消",
}

const saleFlagUnknown = "未知"

// SalesFlagLabel maps a vendor sale-flag code to its display label.
func SalesFlagLabel(code int) string {
	if label, ok := salesFlagLabels[code]; ok {
		return label
	}
	return saleFlagUnknown
}
