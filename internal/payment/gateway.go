package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// StatusSuccess is the gateway status for an opened session.
const StatusSuccess = "SUCCESS"

type SessionRequest struct {
	TranID          string
	Amount          float64
	Currency        string
	SuccessURL      string
	FailURL         string
	CancelURL       string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	ProductName     string
}

// Session is the gateway's answer to a session request.
type Session struct {
	Status       string
	GatewayURL   string
	FailedReason string
	Raw          interface{}
}

func (s *Session) OK() bool {
	return s.Status == StatusSuccess && s.GatewayURL != ""
}

// Gateway opens hosted payment sessions.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// FeatureTranID builds the transaction id used to feature a job.
func FeatureTranID(jobID uint) string {
	return fmt.Sprintf("JOB_%d_FEATURE", jobID)
}

// ParseFeatureTranID extracts the job id from a JOB_<id>_FEATURE transaction id.
func ParseFeatureTranID(tranID string) (uint, bool) {
	parts := strings.Split(tranID, "_")
	if len(parts) != 3 || parts[0] != "JOB" || parts[2] != "FEATURE" {
		return 0, false
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
