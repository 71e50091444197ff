package version

import "fmt"

const (
	Version = "v0.0.1"

	colorReset    = "\033[0m"
	colorCyanBold = "\033[36;1m"
)

// asciiArtTpl returns the ASCII art banner of the litewrap tools.
func asciiArtTpl() string {
	asciiArt := `
    __    _ __                               
   / /   (_) /____ _      ___________ _____ 
  / /   / / __/ _ \ | /| / / ___/ __ ` + "`" + `/ __ \
 / /___/ / /_/  __/ |/ |/ / /  / /_/ / /_/ /
/_____/_/\__/\___/|__/|__/_/   \__,_/ .___/ 
%s ` + Version + `                     /_/      
SQLite %s`

	asciiArt = asciiArt[1:]                          // Drop the leading newline
	asciiArt = colorCyanBold + asciiArt + colorReset // Add color to the ASCII art

	return asciiArt
}

// DemoVersion returns the banner of litedemo for the given engine version.
func DemoVersion(engine string) string {
	return fmt.Sprintf(asciiArtTpl(), "Demo ", engine)
}

// ShellVersion returns the banner of liteshell for the given engine version.
func ShellVersion(engine string) string {
	return fmt.Sprintf(asciiArtTpl(), "Shell", engine)
}

// BenchVersion returns the banner of litebench for the given engine version.
func BenchVersion(engine string) string {
	return fmt.Sprintf(asciiArtTpl(), "Bench", engine)
}
