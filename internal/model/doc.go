// Package model defines the core data structures used throughout
// the podcast-segmenter application.
//
// # Feed
//
// Feed represents a parsed podcast feed with its computed folder:
//
//	feed := model.NewFeed("My Show", artworkURL, pathConfig)
//	fmt.Println(feed.Path)        // <output>/My Show
//	fmt.Println(feed.ArtworkPath) // <output>/My Show/cover.jpg
//
// # Episode
//
// Episodes are appended in feed order and numbered from 1:
//
//	ep := feed.AddEpisode(audioURL)
//	fmt.Println(ep.Dir)  // <output>/My Show/Episode_1
//	fmt.Println(ep.Path) // <output>/My Show/Episode_1/My Show_1.mp3
//
// # Segment
//
// Segment describes one fixed-length window of an episode:
//
//	seg := model.NewSegment(ep.Dir, 1, 0, 15*time.Second)
//	fmt.Println(seg.Path) // <output>/My Show/Episode_1/Segment_1.mp3
package model
