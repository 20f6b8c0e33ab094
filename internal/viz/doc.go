// Package viz renders free-fall runs in the terminal.
//
//   - [Report]: the console diagnostics printed after every run
//   - [Chart]: an asciigraph plot of Ec, Ep and Em over time
//   - [Model]: a Bubble Tea view that animates the fall in real time
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Drop again from the initial height
//	+/-   - Playback speed
//	Up/K  - Raise the drop height and drop again
//	Dn/J  - Lower the drop height and drop again
//	T     - Cycle color themes
//	Q     - Quit
package viz
