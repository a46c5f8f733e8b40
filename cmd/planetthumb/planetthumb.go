package main

import(
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/obsarchive/planetthumb/pkg/config"
	"github.com/obsarchive/planetthumb/pkg/planet"
)

var(
	fOutputFilename string
	fHeight int
	fWidth int
	fLocatorFilename string
	fDumpConfig bool
	fVerbose bool
)

func init() {
	flag.StringVar(&fOutputFilename, "o", "", "name of output jpg (default under the configured tmp dir)")
	flag.IntVar(&fHeight, "height", 300, "max height of the thumbnail")
	flag.IntVar(&fWidth, "width", 300, "max width of the thumbnail")
	flag.StringVar(&fLocatorFilename, "locator", "", "also write a planet-locator png to this file")
	flag.BoolVar(&fDumpConfig, "dumpconfig", false, "print the resolved settings and exit")
	flag.BoolVar(&fVerbose, "v", false, "log per-frame scaling detail")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
	if fVerbose {
		log.SetLevel(log.DebugLevel)
	}
}

func main() {
	settings := config.New(nil)

	if fDumpConfig {
		yml, err := settings.AsYaml()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(yml)
		return
	}

	if fOutputFilename == "" {
		fOutputFilename = settings.TmpDir + config.TempFilenamePrefix() + "thumb.jpg"
	}

	// One FITS file makes a grayscale thumbnail, three make RGB.
	if err := planet.ToJPG(flag.Args(), fOutputFilename, fHeight, fWidth); err != nil {
		log.Fatal(err)
	}

	if fLocatorFilename != "" {
		g, err := planet.LoadPlanetFrame(flag.Args()[0], len(flag.Args()) == 3)
		if err != nil {
			log.Fatal(err)
		}
		if err := planet.WriteLocatorImage(g, fLocatorFilename); err != nil {
			log.Fatal(err)
		}
		log.WithFields(log.Fields{"output": fLocatorFilename}).Info("wrote locator image")
	}
}
