package display

import (
	"fmt"
	"io"

	"github.com/backmassage/gltfastc/internal/term"
)

const banner = `       _ _    __           _
  __ _| | |_ / _| __ _ ___| |_ ___
 / _` + "`" + ` | | __| |_ / _` + "`" + ` / __| __/ __|
| (_| | | |_|  _| (_| \__ \ || (__
 \__, |_|\__|_|  \__,_|___/\__\___|
 |___/           glTF -> ASTC 6x6`

// PrintBanner writes the ASCII art banner to w; magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, term.Paint(term.Magenta, banner))
	fmt.Fprintln(w)
}
