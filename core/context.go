package core

// RecommendContext 承载单次推荐请求的用户/画像/选项，贯穿整个 Pipeline 透传。
// Profile 由 profile.Resolver 填充，对下游节点只读。
type RecommendContext struct {
	UserID string

	// Profile 是已解析的收听画像（缺失历史时为默认画像，不会为 nil）
	Profile *ListeningProfile

	// Limit 是调用方要求的结果条数上限
	Limit int

	// Options 是请求级可选项（情绪过滤、剔除近播等）
	Options RecommendOptions

	// Params 请求级上下文参数（实验桶、设备类型等），按需透传
	Params map[string]any
}
