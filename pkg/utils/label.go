package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// 候选曲目在召回/过滤/排序各阶段被打上 Label（候选来源、命中流派、过滤原因等），
// 最终结果可以据此 explain。Value 与 Source 的语义由业务自定义。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rank / rerank ...
}

// MergeLabel 用于合并同名 Label，遵循“保留历史、可追踪”的默认策略。
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
//
// 同一曲目被多个候选池召回时，recall_source 标签按此规则累积，
// 便于排查某条推荐到底来自哪些池。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
