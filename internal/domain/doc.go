// Package domain defines the core business entities of the application:
// the todo and context-entry records that analysis runs against, and the
// value objects (task suggestions, context insights, productivity insights)
// that analysis produces.
package domain
