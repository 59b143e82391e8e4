// Package task provides the background job machinery that runs AI analysis
// asynchronously: a Task interface, a buffered in-memory queue, a runner
// with a worker pool and crash recovery, and the concrete task types that
// analyze todos and context entries and generate productivity insights.
// Each orchestrator invocation runs on its own worker so one slow or
// failing model call does not block others.
package task
