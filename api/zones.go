package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/healthlog/insights"
	"github.com/tidepool-org/healthlog/zones"
)

type ClassifyRequest struct {
	Metric    string   `json:"metric"`
	Value     *float64 `json:"value,omitempty"`
	Systolic  *float64 `json:"systolic,omitempty"`
	Diastolic *float64 `json:"diastolic,omitempty"`
}

type Classification struct {
	Metric       zones.Metric `json:"metric"`
	Zone         zones.Zone   `json:"zone"`
	ValueSummary string       `json:"valueSummary"`
	Insight      string       `json:"insight"`
}

// ClassifyVital returns the zone of a single reading
// (POST /v1/zones/classify)
func (h *Handler) ClassifyVital(c echo.Context) error {
	request := ClassifyRequest{}
	if err := bind(c, &request); err != nil {
		return err
	}

	classification, err := Classify(request)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classification)
}

func Classify(request ClassifyRequest) (*Classification, error) {
	metric, err := zones.ParseMetric(request.Metric)
	if err != nil {
		return nil, badRequest(err)
	}

	result := &Classification{Metric: metric}
	if metric == zones.BloodPressure {
		if request.Systolic == nil || request.Diastolic == nil {
			return nil, badRequest(zones.ErrPairRequired)
		}
		result.Zone = zones.ClassifyBloodPressure(*request.Systolic, *request.Diastolic)
		result.ValueSummary = zones.FormatBloodPressure(*request.Systolic, *request.Diastolic)
	} else {
		if request.Value == nil {
			return nil, badRequest(fmt.Errorf("value is required"))
		}
		if result.Zone, err = zones.Classify(metric, *request.Value); err != nil {
			return nil, badRequest(err)
		}
		result.ValueSummary = zones.FormatValue(metric, *request.Value)
	}
	result.Insight = insights.Insight(result.Zone)

	return result, nil
}
