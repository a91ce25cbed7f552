// Package registry holds the process-wide tool table.
//
// The registry is constructed at startup, populated by Register calls, and
// frozen before the first session is accepted. After Freeze it is read-only;
// concurrent session handling reads it without coordination. Duplicate names
// fail fast at registration so wiring mistakes surface where they are cheap.
package registry
