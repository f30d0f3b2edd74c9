package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDeliveryJobNormalize(t *testing.T) {
	job := DeliveryJob{NotificationID: 1, RecipientID: 2, Method: "email"}
	job.normalize()

	if _, err := uuid.Parse(job.JobID); err != nil {
		t.Errorf("JobID %q is not a valid UUID: %v", job.JobID, err)
	}
	if _, err := time.Parse(time.RFC3339, job.EnqueuedAt); err != nil {
		t.Errorf("EnqueuedAt %q is not RFC3339: %v", job.EnqueuedAt, err)
	}
}

func TestDeliveryJobNormalizeKeepsExistingIdentity(t *testing.T) {
	job := DeliveryJob{JobID: "job-1", EnqueuedAt: "2026-01-02T03:04:05Z"}
	job.normalize()

	if job.JobID != "job-1" {
		t.Errorf("JobID = %q, want job-1", job.JobID)
	}
	if job.EnqueuedAt != "2026-01-02T03:04:05Z" {
		t.Errorf("EnqueuedAt = %q, want original stamp", job.EnqueuedAt)
	}
}
