package main

import(
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/obsarchive/planetthumb/pkg/fits"
)

var fDumpPNG bool

func init() {
	flag.BoolVar(&fDumpPNG, "png", false, "also dump each data HDU as a gamma-corrected png")
	flag.Parse()
}

// fitsinfo prints a one-line summary of every HDU in the named files.
func main() {
	for _, filename := range flag.Args() {
		f, err := fits.Open(filename)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("%s:\n", filename)
		for i, u := range f.Units {
			name := u.Name
			if name == "" { name = "-" }
			fmt.Printf("  HDU %d: %-8s bitpix=%3d naxis=%v", i, name, u.Bitpix, u.Naxis)
			if object, ok := u.Header.Get("OBJECT"); ok {
				fmt.Printf(" object=%q", object)
			}
			if filter, ok := u.Header.Get("FILTER"); ok {
				fmt.Printf(" filter=%q", filter)
			}
			if u.Data != nil {
				fmt.Printf(" %s", u.Data.Stats())
			}
			fmt.Printf("\n")

			if fDumpPNG && u.Data != nil {
				pngName := fmt.Sprintf("%s-hdu%d.png", filename, i)
				if err := u.Data.ToImg(name, pngName); err != nil {
					log.Fatal(err)
				}
				fmt.Printf("    wrote %s\n", pngName)
			}
		}
	}
}
