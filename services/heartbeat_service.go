package services

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
)

// HeartbeatService pings a partner deployment every two minutes so free-tier
// hosts keep both servers awake. Failures are logged, never retried or
// surfaced anywhere else.
type HeartbeatService struct {
	cron       *cron.Cron
	partnerURL string
	client     *http.Client
}

// NewHeartbeatService creates a heartbeat service targeting partnerURL.
func NewHeartbeatService(partnerURL string) *HeartbeatService {
	return &HeartbeatService{
		cron:       cron.New(),
		partnerURL: partnerURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Start sends a first ping immediately, then schedules one every two minutes.
func (h *HeartbeatService) Start() error {
	if h.partnerURL == "" {
		log.Println("PARTNER_URL not set, heartbeat disabled")
		return nil
	}

	h.ping()

	if _, err := h.cron.AddFunc("@every 2m", h.ping); err != nil {
		return fmt.Errorf("failed to schedule heartbeat: %w", err)
	}
	h.cron.Start()
	return nil
}

// Stop halts the schedule and waits for an in-flight ping to finish.
func (h *HeartbeatService) Stop() {
	ctx := h.cron.Stop()
	<-ctx.Done()
}

func (h *HeartbeatService) ping() {
	resp, err := h.client.Get(h.partnerURL + "/on")
	if err != nil {
		log.Printf("Failed to send health check: %v", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	log.Printf("Health check sent to partner server: %s", string(body))
}
