package cmd

// version is set at build time using -ldflags.
var version = "dev"

// Version returns the build version of the glanced binary.
func Version() string {
	return version
}
