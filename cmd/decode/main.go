package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/skybrief/skybrief/internal/decode"
)

var (
	sectionColor  = color.New(color.FgBlue, color.Bold)
	rawColor      = color.New(color.FgWhite)
	categoryColor = map[decode.FlightCategory]*color.Color{
		decode.CategoryVFR:     color.New(color.FgGreen),
		decode.CategoryMFR:     color.New(color.FgCyan),
		decode.CategoryIFR:     color.New(color.FgYellow),
		decode.CategoryLIFR:    color.New(color.FgRed),
		decode.CategoryUnknown: color.New(color.FgWhite),
	}
)

func main() {
	product := flag.String("type", "metar", "Report type: metar, taf, sigmet or pirep")
	station := flag.String("station", "", "Station identifier for TAF decoding (e.g., KLAX)")
	noRaw := flag.Bool("no-raw", false, "Hide raw report text")
	noColor := flag.Bool("no-color", false, "Disable color output")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	raw := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if raw == "" {
		raw = readFromStdin()
	}
	if raw == "" {
		fmt.Fprintln(os.Stderr, "Usage: decode [-type metar|taf|sigmet|pirep] <raw report text>")
		fmt.Fprintln(os.Stderr, "       echo '<raw report>' | decode -type taf -station KLAX")
		os.Exit(1)
	}

	if !*noRaw {
		rawColor.Println(raw)
	}

	switch strings.ToLower(*product) {
	case "metar":
		fmt.Print(decode.RenderMETAR(raw))
		category := decode.ClassifyMETAR(raw)
		fmt.Print("\nFlight Category: ")
		categoryColor[category].Println(string(category))
	case "taf":
		code := strings.ToUpper(*station)
		if code == "" {
			// Fall back to the second token of the report (TAF KXXX ...)
			fields := strings.Fields(raw)
			if len(fields) > 1 && fields[0] == "TAF" {
				code = fields[1]
			}
		}
		sectionColor.Println("\nDecoded TAF Report:")
		fmt.Print(decode.DecodeTAF(code, raw).Render())
	case "sigmet":
		sectionColor.Println("\nDecoded SIGMET:")
		fmt.Println(decode.DecodeSIGMET(raw).Render())
	case "pirep":
		sectionColor.Println("\nPIREP Summary:")
		fmt.Println(decode.SummarizePIREP(raw))
	default:
		fmt.Fprintf(os.Stderr, "Unknown report type: %s\n", *product)
		os.Exit(1)
	}
}

// readFromStdin collects piped report text, if any
func readFromStdin() string {
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return ""
	}

	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
