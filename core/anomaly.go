package core

import "time"

// AnomalyType 是流完整性异常的封闭枚举。
type AnomalyType string

const (
	AnomalyBotBehavior          AnomalyType = "bot_behavior"
	AnomalyStreamFarming        AnomalyType = "stream_farming"
	AnomalyVPNSpoofing          AnomalyType = "vpn_spoofing"
	AnomalyUnusualRepeatPattern AnomalyType = "unusual_repeat_pattern"
	AnomalyDeviceAnomaly        AnomalyType = "device_anomaly"
)

// ParseAnomalyType 归一化异常类型；未知值返回 (“”, false)。
func ParseAnomalyType(s string) (AnomalyType, bool) {
	switch AnomalyType(s) {
	case AnomalyBotBehavior, AnomalyStreamFarming, AnomalyVPNSpoofing,
		AnomalyUnusualRepeatPattern, AnomalyDeviceAnomaly:
		return AnomalyType(s), true
	}
	return "", false
}

// StreamAnomaly 是一条流完整性异常信号，交由上层告警/审计消费。
// 引擎只产出信号，从不封禁。UserID 可选：仅对单用户维度的异常填写。
type StreamAnomaly struct {
	UserID      string
	TrackID     string
	AnomalyType AnomalyType
	Confidence  float64
	DetectedAt  time.Time

	// Metadata 是自由格式的诊断信息（streamCount、avgInterval 等）
	Metadata map[string]any
}
