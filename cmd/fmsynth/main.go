package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	fmsynth "github.com/cbegin/fmsynth-go"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		presetIdx  = flag.Int("preset", -1, "preset index for one-shot playback")
		melodyIdx  = flag.Int("melody", -1, "melody index for one-shot playback")
		gate       = flag.Float64("gate", 0, "note gate ratio in (0,1]; 0 = default")
		wavPath    = flag.String("wav", "", "render to a WAV file instead of playing (requires -preset and -melody)")
	)
	flag.Parse()

	var opts []fmsynth.Option
	if *gate > 0 {
		opts = append(opts, fmsynth.WithGateRatio(*gate))
	}
	synth, err := fmsynth.New(*sampleRate, opts...)
	if err != nil {
		log.Fatal(err)
	}

	if *wavPath != "" {
		if *presetIdx < 0 || *melodyIdx < 0 {
			log.Fatal("-wav requires -preset and -melody")
		}
		samples, err := synth.RenderMelody(*presetIdx, *melodyIdx)
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*wavPath, fmsynth.EncodeWAVFloat32LE(samples, *sampleRate, 2), 0o644); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s\n", *wavPath)
		return
	}

	if *presetIdx >= 0 && *melodyIdx >= 0 {
		if err := playAndWait(synth, *presetIdx, *melodyIdx); err != nil {
			log.Fatal(err)
		}
		return
	}

	repl(synth)
}

func playAndWait(synth *fmsynth.Synth, preset, melody int) error {
	pb, err := synth.PlayMelody(preset, melody)
	if err != nil {
		return err
	}
	return pb.Wait()
}

func repl(synth *fmsynth.Synth) {
	printMenu()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "list":
			if len(parts) < 2 {
				fmt.Println("usage: list <presets|melodies>")
				continue
			}
			switch parts[1] {
			case "presets":
				for _, line := range synth.ListPresets() {
					fmt.Println("  " + line)
				}
			case "melodies":
				for _, line := range synth.ListMelodies() {
					fmt.Println("  " + line)
				}
			default:
				fmt.Println("usage: list <presets|melodies>")
			}
		case "play":
			if len(parts) < 3 {
				fmt.Println("usage: play <preset-index> <melody-index>")
				continue
			}
			preset, err1 := strconv.Atoi(parts[1])
			melody, err2 := strconv.Atoi(parts[2])
			if err1 != nil || err2 != nil {
				fmt.Println("indices must be integers; see 'list'")
				continue
			}
			if err := playAndWait(synth, preset, melody); err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println("done")
		case "demo":
			// Every preset over the major arpeggio.
			for i, line := range synth.ListPresets() {
				fmt.Println("  " + line)
				if err := playAndWait(synth, i, 5); err != nil {
					fmt.Println(err)
					break
				}
			}
		case "help":
			printMenu()
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command; type 'help'")
		}
	}
}

func printMenu() {
	fmt.Println("commands:")
	fmt.Println("  list presets             show all presets")
	fmt.Println("  list melodies            show all melodies")
	fmt.Println("  play <preset> <melody>   play a melody with a preset (zero-based indices)")
	fmt.Println("  demo                     play every preset over the major arpeggio")
	fmt.Println("  help                     show this menu")
	fmt.Println("  quit                     exit")
}
