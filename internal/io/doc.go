// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Replacing files without leaving partial writes behind
//   - Directory creation
//   - Cover art resizing and format conversion
//
// # File Operations
//
//	// Write an episode, replacing a previous run's file
//	err := ioutils.WriteFile(ctx, ep.Path, audioBytes)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir(ep.Dir)
//
// # Image Processing
//
// ImageService shrinks and re-encodes channel artwork before it is saved
// as cover.jpg or embedded in tags:
//
//	cover, err := ioutils.NewImageService().PrepareCoverArt(ctx, art, 500, true)
package ioutils
