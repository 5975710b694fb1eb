package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffIgnoresVolatileKeysAndTolerance(t *testing.T) {
	a := map[string]interface{}{
		"data": map[string]interface{}{"pace": 1.0000001, "name": "a"},
		"meta": map[string]interface{}{"duration_ms": 3.0},
	}
	b := map[string]interface{}{
		"data": map[string]interface{}{"pace": 1.0, "name": "a"},
		"meta": map[string]interface{}{"duration_ms": 9.0},
	}
	assert.Empty(t, diff("$", a, b, 1e-6))
}

func TestDiffReportsPaths(t *testing.T) {
	a := map[string]interface{}{"data": []interface{}{
		map[string]interface{}{"risk_score": 40.0, "at_risk": false},
	}}
	b := map[string]interface{}{"data": []interface{}{
		map[string]interface{}{"risk_score": 70.0, "at_risk": true},
	}}
	assert.Equal(t, []string{"$.data[0].at_risk", "$.data[0].risk_score"}, diff("$", a, b, 1e-6))

	c := map[string]interface{}{"data": []interface{}{}}
	assert.Equal(t, []string{"$.data[len]"}, diff("$", a, c, 1e-6))
}
