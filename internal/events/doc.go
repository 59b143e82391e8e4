// Package events provides a minimal in-process event mechanism that
// decouples record creation from background analysis. Creating a todo or
// context entry emits an AnalysisRequestEvent; a handler turns the event
// into a background task without the creating code importing the task
// machinery.
package events
