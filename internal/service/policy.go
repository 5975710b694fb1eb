package service

import "github.com/noah-isme/madrasah-analytics-api/pkg/config"

// Policy holds the tunable constants shared by the metric calculators.
type Policy struct {
	VersesPerPage         float64
	TargetPacePerWeek     float64
	StagnationDays        int
	MinAttendanceRate     float64
	AtRiskThreshold       float64
	AttendanceRiskWeight  float64
	PaceRiskWeight        float64
	StagnationRiskWeight  float64
	DropOffInactivityDays int
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		VersesPerPage:         10,
		TargetPacePerWeek:     5,
		StagnationDays:        7,
		MinAttendanceRate:     80,
		AtRiskThreshold:       50,
		AttendanceRiskWeight:  0.4,
		PaceRiskWeight:        0.35,
		StagnationRiskWeight:  0.25,
		DropOffInactivityDays: 30,
	}
}

// PolicyFromConfig overlays configured values onto the defaults; non-positive values keep the default.
func PolicyFromConfig(cfg config.PolicyConfig) Policy {
	p := DefaultPolicy()
	if cfg.VersesPerPage > 0 {
		p.VersesPerPage = cfg.VersesPerPage
	}
	if cfg.TargetPacePerWeek > 0 {
		p.TargetPacePerWeek = cfg.TargetPacePerWeek
	}
	if cfg.StagnationDays > 0 {
		p.StagnationDays = cfg.StagnationDays
	}
	if cfg.MinAttendanceRate > 0 {
		p.MinAttendanceRate = cfg.MinAttendanceRate
	}
	if cfg.AtRiskThreshold > 0 {
		p.AtRiskThreshold = cfg.AtRiskThreshold
	}
	if cfg.AttendanceRiskWeight > 0 {
		p.AttendanceRiskWeight = cfg.AttendanceRiskWeight
	}
	if cfg.PaceRiskWeight > 0 {
		p.PaceRiskWeight = cfg.PaceRiskWeight
	}
	if cfg.StagnationRiskWeight > 0 {
		p.StagnationRiskWeight = cfg.StagnationRiskWeight
	}
	if cfg.DropOffInactivityDays > 0 {
		p.DropOffInactivityDays = cfg.DropOffInactivityDays
	}
	return p
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func percent(part, whole int) *float64 {
	if whole <= 0 {
		return nil
	}
	return floatPtr(float64(part) / float64(whole) * 100)
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return floatPtr(sum / float64(len(values)))
}
