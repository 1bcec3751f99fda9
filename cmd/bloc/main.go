package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/svanichkin/bloc"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprint(os.Stderr, "Encode: bloc <input-image> [quality 1–100]\nDecode: bloc <input.bloc>\n")
		os.Exit(1)
	}

	inputPath := os.Args[1]
	ext := strings.ToLower(filepath.Ext(inputPath))
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))

	// If input is .bloc → decode to PNG
	if ext == ".bloc" {
		if err := decodeFile(inputPath, base+".png"); err != nil {
			fmt.Fprintln(os.Stderr, "decode error:", err)
			os.Exit(1)
		}
		fmt.Printf("Decoded %s → %s\n", inputPath, base+".png")
		return
	}

	// Otherwise: encode image → .bloc with default or provided quality
	quality := 75
	if len(os.Args) == 3 {
		q, err := strconv.Atoi(os.Args[2])
		if err != nil || q < 1 || q > 100 {
			fmt.Fprintln(os.Stderr, "quality must be an integer between 1 and 100")
			os.Exit(1)
		}
		quality = q
	}

	outPath := base + ".bloc"
	if err := encodeFile(inputPath, outPath, quality); err != nil {
		fmt.Fprintln(os.Stderr, "encode error:", err)
		os.Exit(1)
	}
	fmt.Printf("Encoded %s (quality=%d) → %s\n", inputPath, quality, outPath)
}

func encodeFile(inPath, outPath string, quality int) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return bloc.NewEncoder().EncodeTo(out, img, quality, false)
}

func decodeFile(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, err := bloc.NewDecoder().DecodeFrom(in)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return png.Encode(out, img)
}
