package apex

import (
	alog "github.com/apex/log"

	"github.com/unkn0wn-root/offcache"
)

var _ offcache.Logger = Logger{}

type Logger struct{ L alog.Interface }

func (a Logger) Debug(msg string, f offcache.Fields) { a.L.WithFields(alog.Fields(f)).Debug(msg) }
func (a Logger) Info(msg string, f offcache.Fields)  { a.L.WithFields(alog.Fields(f)).Info(msg) }
func (a Logger) Warn(msg string, f offcache.Fields)  { a.L.WithFields(alog.Fields(f)).Warn(msg) }
func (a Logger) Error(msg string, f offcache.Fields) { a.L.WithFields(alog.Fields(f)).Error(msg) }
