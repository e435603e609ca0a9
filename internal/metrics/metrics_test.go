package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesMetrics(t *testing.T) {
	SubmissionsTotal.WithLabelValues("manual").Inc()
	BotGenerationsTotal.WithLabelValues("momentum").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"hunterbot_submissions_total", "hunterbot_bot_generations_total", "hunterbot_active_sessions"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("%s not exposed", name)
		}
	}
}

func TestDirectionLabel(t *testing.T) {
	if DirectionLabel("") != "NEUTRAL" {
		t.Error("expected NEUTRAL for empty direction")
	}
	if DirectionLabel("LONG") != "LONG" {
		t.Error("expected LONG to pass through")
	}
}
