// Package pipeline drives shows through the fetch-then-segment process.
//
// # Driver
//
// For every show slug the Driver:
//
//  1. Builds the feed URL and fetches the podcast title
//  2. Creates <output>/<title>/
//  3. Fetches the enclosure URLs (capped by max_episodes)
//  4. Downloads each episode into Episode_<n>/<title>_<n>.mp3
//  5. Splits it into Segment_<k>.mp3 files
//  6. Tags episodes and segments, writes cover art and a playlist (optional)
//
// # Basic Usage
//
//	log, closeLog, _ := logging.NewErrorLog(settings.ErrorLogPath)
//	defer closeLog()
//
//	driver := pipeline.NewDriver(settings, log, func(event pipeline.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	summary, err := driver.Run(ctx, settings.Shows)
//	if err != nil {
//	    log.Fatal(err) // output folder could not be created
//	}
//
// # Failure Policy
//
// A show whose feed is unreachable or malformed is skipped. An episode that
// cannot be downloaded is skipped; one that cannot be decoded keeps its
// downloaded file but gets no segments. Each failure is written to the
// error log and the run continues with the next episode or show.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Driver.Progress returns atomic counters for UIs polling from another
// goroutine.
package pipeline
