/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package objlog is the request/response tracing hook threaded through
// every service client. It exists so API calls can be logged during
// development without the core caring how or where logs end up.
package objlog

import "github.com/sirupsen/logrus"

// ObjLog is implemented by anything that wants to observe every request the
// core issues. Close releases any resources the implementation holds.
type ObjLog interface {
	Close() error
	Log(method, url string, obj interface{}) error
}

// NilObjLogger discards everything; it is the default when no logger is
// configured.
type NilObjLogger struct{}

// NewNilLogger returns a logger that drops every entry.
func NewNilLogger() (ObjLog, error) {
	return &NilObjLogger{}, nil
}

func (*NilObjLogger) Log(method, url string, obj interface{}) error { return nil }
func (*NilObjLogger) Close() error                                  { return nil }

// LogrusObjLogger emits request traces through a structured logrus entry,
// one field per call: method, url, and the decoded object (if any).
type LogrusObjLogger struct {
	log *logrus.Logger
}

// NewLogrusLogger wraps an existing *logrus.Logger. A nil logger falls back
// to logrus.StandardLogger().
func NewLogrusLogger(log *logrus.Logger) (ObjLog, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogrusObjLogger{log: log}, nil
}

// Log records one request/response pair at debug level.
func (l *LogrusObjLogger) Log(method, url string, obj interface{}) error {
	fields := logrus.Fields{"method": method, "url": url}
	if obj != nil {
		fields["object"] = obj
	}
	l.log.WithFields(fields).Debug("seaplane api call")
	return nil
}

// Close is a no-op; the caller owns the underlying *logrus.Logger.
func (*LogrusObjLogger) Close() error { return nil }
