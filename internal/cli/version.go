package cli

import (
	"fmt"
	"runtime"
)

// Version is the current version of the msci toolkit
const Version = "1.0.0"

// HandleVersion prints the toolkit version
func HandleVersion() {
	fmt.Printf("msci version %s %s/%s\n", Version, runtime.GOOS, runtime.GOARCH)
}
