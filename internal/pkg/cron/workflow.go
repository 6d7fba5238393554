package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hc-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/metrics"
)

// SubscriberCounter reports open SSE connections.
type SubscriberCounter interface {
	TotalSubscribers() int
}

// WorkflowJobs keeps the workflow gauges current.
type WorkflowJobs struct {
	leaveRequestRepo leave.LeaveRequestRepository
	subscribers      SubscriberCounter
}

func NewWorkflowJobs(leaveRequestRepo leave.LeaveRequestRepository, subscribers SubscriberCounter) *WorkflowJobs {
	return &WorkflowJobs{
		leaveRequestRepo: leaveRequestRepo,
		subscribers:      subscribers,
	}
}

func (j *WorkflowJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("refresh_open_requests", interval, j.RefreshOpenRequests)
	scheduler.AddJob("refresh_sse_subscribers", interval, j.RefreshSSESubscribers)
}

// RefreshOpenRequests sets hc_workflow_open_requests for every non-final status.
// Statuses with no rows are reported as zero.
func (j *WorkflowJobs) RefreshOpenRequests(ctx context.Context) error {
	var open []leave.Status
	for _, s := range leave.Statuses() {
		if !s.IsTerminal() {
			open = append(open, s)
		}
	}

	requests, err := j.leaveRequestRepo.List(ctx, leave.ListQuery{Statuses: open})
	if err != nil {
		return fmt.Errorf("failed to list open leave requests: %w", err)
	}

	counts := make(map[leave.Status]int, len(open))
	for _, r := range requests {
		counts[r.Status]++
	}
	for _, s := range open {
		metrics.SetOpenRequests(string(s), counts[s])
	}
	return nil
}

func (j *WorkflowJobs) RefreshSSESubscribers(ctx context.Context) error {
	metrics.SetSSESubscribers(j.subscribers.TotalSubscribers())
	return nil
}
