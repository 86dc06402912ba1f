package app

// ANSI escapes for result reporting on the console.
const (
	colourReset = "\033[0m"
	colourBold  = "\033[1m"
	colourGreen = "\033[92m"
	colourRed   = "\033[91m"
)
