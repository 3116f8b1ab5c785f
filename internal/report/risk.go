package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/electronjoe/exifmap/internal/fsutil"
)

var (
	highRiskTags = map[string]bool{
		"GPSLatitude":  true,
		"GPSLongitude": true,
		"Copyright":    true,
		"Author":       true,
		"Artist":       true,
	}
	riskKeywords = []string{"GPS", "Location", "Position", "Address", "Copyright", "Author", "Artist"}
)

const (
	highRiskNote   = "HIGH: location or ownership information exposed"
	mediumRiskNote = "MEDIUM: potentially sensitive information"

	adviceRemoveGPS   = "Remove GPS metadata before sharing this image"
	adviceReview      = "Review and remove personal or sensitive metadata"
	adviceNothingSeen = "No significant security risks detected"
)

// RiskItem is one tag flagged by the security analysis.
type RiskItem struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
	Risk  string `json:"risk"`
}

// RiskReport is the security analysis of one file.
type RiskReport struct {
	Filename        string     `json:"filename"`
	HighRisk        []RiskItem `json:"high_risk_items"`
	MediumRisk      []RiskItem `json:"medium_risk_items"`
	Recommendations []string   `json:"recommendations"`
}

// AssessRisk classifies the metadata rows of one file.
func AssessRisk(filename string, rows []Row) RiskReport {
	rr := RiskReport{
		Filename:   filename,
		HighRisk:   []RiskItem{},
		MediumRisk: []RiskItem{},
	}
	for _, r := range rows {
		switch {
		case highRiskTags[r.Tag]:
			rr.HighRisk = append(rr.HighRisk, RiskItem{Tag: r.Tag, Value: r.Value, Risk: highRiskNote})
		case containsKeyword(r.Tag):
			rr.MediumRisk = append(rr.MediumRisk, RiskItem{Tag: r.Tag, Value: r.Value, Risk: mediumRiskNote})
		}
	}

	if len(rr.HighRisk) > 0 {
		rr.Recommendations = append(rr.Recommendations, adviceRemoveGPS)
	}
	if len(rr.MediumRisk) > 0 {
		rr.Recommendations = append(rr.Recommendations, adviceReview)
	}
	if len(rr.Recommendations) == 0 {
		rr.Recommendations = append(rr.Recommendations, adviceNothingSeen)
	}
	return rr
}

func containsKeyword(tag string) bool {
	for _, kw := range riskKeywords {
		if strings.Contains(tag, kw) {
			return true
		}
	}
	return false
}

type riskDocument struct {
	RunID       string       `json:"run_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Files       []RiskReport `json:"files"`
}

// WriteRiskReports stores the analyses of a run as indented JSON.
func WriteRiskReports(path, runID string, reports []RiskReport) error {
	if reports == nil {
		reports = []RiskReport{}
	}
	data, err := json.MarshalIndent(riskDocument{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Files:       reports,
	}, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal security analysis: %w", err)
	}
	return fsutil.WriteFileAtomic(path, data)
}
