package scheduler

import "testing"

func TestEventScheduler_AddAndGetJob(t *testing.T) {
	s := NewEventScheduler()

	if err := s.AddJob("prune", "0 3 * * *", func() {}); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	if err := s.AddJob("prune", "0 4 * * *", func() {}); err == nil {
		t.Error("duplicate job id accepted")
	}
	if err := s.AddJob("broken", "not a cron", func() {}); err == nil {
		t.Error("invalid cron expression accepted")
	}

	job, ok := s.GetJob("prune")
	if !ok {
		t.Fatal("GetJob did not find the job")
	}
	if job.CronExpr != "0 3 * * *" || job.NextRun == nil {
		t.Errorf("job = %+v", job)
	}
	if _, ok := s.GetJob("missing"); ok {
		t.Error("GetJob found a job that was never added")
	}
}

func TestEventScheduler_StartStop(t *testing.T) {
	s := NewEventScheduler()
	s.Start()
	s.Start()
	if !s.IsRunning() {
		t.Fatal("scheduler not running after Start")
	}
	s.Stop()
	if s.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
}
