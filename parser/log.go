package parser

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Rule entry/exit tracing. Enabled only at Trace level; the indirections keep
// the hot path free of formatting when tracing is off.

var traceDepth int

type exiter interface {
	exitf(format string, args ...interface{})
}

type nopExiter struct{}

func (nopExiter) exitf(string, ...interface{}) {}

type traceExiter struct{}

func (traceExiter) exitf(format string, args ...interface{}) {
	traceDepth--
	logrus.Tracef(strings.Repeat("  ", traceDepth)+"<-- "+format, deref(args)...)
}

func enterf(format string, args ...interface{}) exiter {
	if !logrus.IsLevelEnabled(logrus.TraceLevel) {
		return nopExiter{}
	}
	logrus.Tracef(strings.Repeat("  ", traceDepth)+"--> "+format, args...)
	traceDepth++
	return traceExiter{}
}

// deref resolves the pointers that parse functions hand to their deferred
// exitf calls, so the logged values are the ones set at exit time.
func deref(args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args))
	for _, a := range args {
		switch a := a.(type) {
		case *error:
			if *a != nil {
				out = append(out, fmt.Sprintf("err(%v)", *a))
			} else {
				out = append(out, "ok")
			}
		case *TreeElement:
			out = append(out, *a)
		default:
			out = append(out, a)
		}
	}
	return out
}
