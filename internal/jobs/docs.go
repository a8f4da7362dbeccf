// Package jobs provides scheduled background tasks for the parcel service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the parcel lifecycle.
//
// # Available Jobs
//
// 1. ParcelAssignmentJob - Runs every fifteen seconds to distribute pending
// unassigned parcels across the active driver pool, oldest first.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(uowFactory, bulkAssignHandler, systemActor, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// An empty backlog or an empty driver pool is the normal idle case and is not
// logged. Per-parcel assignment failures (inactive driver, lost races) are
// reported in the bulk result and logged as warnings; the tick carries on.
package jobs
