package camera

import "time"

// Source delivers frames from an underlying video path. Next blocks until
// one frame is available; the acquisition loop is the only caller.
//
// Sources with an inherent playback rate (recorded or generated content)
// report it via Interval so the loop can pace itself; live sources return
// 0 and run at their native delivery rate.
type Source interface {
	Next() (*Frame, error)
	Interval() time.Duration
	Close() error
}

// StreamOpener opens a live stream URL as a frame source. Decoding network
// video is outside this package; the bootstrapper injects an opener backed
// by whatever decode path the deployment uses.
type StreamOpener func(url string) (Source, error)
