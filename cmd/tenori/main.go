// Command tenori plays, renders and inspects step-sequencer songs.
//
// Usage:
//
//	tenori [flags] <command> [args]
//
// Commands:
//
//	play    - Play a song on the audio device (space pauses, +/- tempo, q quits)
//	render  - Render a song to a WAV file
//	info    - Show a song's tracks
//	new     - Write a demo song to start from
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
