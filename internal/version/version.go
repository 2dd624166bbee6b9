package version

import "fmt"

const (
	Version = "v0.1.0"

	colorReset    = "\033[0m"
	colorCyanBold = "\033[36;1m"
)

// asciiArtTpl returns the ASCII art banner with a %s slot for the tool name.
func asciiArtTpl() string {
	asciiArt := `
    _   _______ ____    __    _ __
   / | / / ___// __ \  / /   (_) /____  _____
  /  |/ /\__ \/ / / / / /   / / __/ _ \/ ___/
 / /|  /___/ / /_/ / / /___/ / /_/  __/ /__
/_/ |_//____/\___\_\/_____/_/\__/\___/\___/
%s ` + Version

	asciiArt = asciiArt[1:] // This just removes the first newline character
	return colorCyanBold + asciiArt + colorReset
}

// ShellVersion returns the version banner of the nsqlitec shell.
func ShellVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Shell")
}

// BenchVersion returns the version banner of nsqlitecbench.
func BenchVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Bench")
}
