// Package logger is a standardized event logging framework for the shell.
//
// Every entry is a google.protobuf.Struct holding a timestamp, the session
// id, the event type and event specific fields. Entries are stored as
// newline delimited protobuf JSON.
package logger
