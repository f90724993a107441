// Command bmptool inspects and transforms BMP files.
//
// Usage:
//
//	bmptool [flags] <input.bmp> [input2.bmp]
//
// Examples:
//
//	bmptool -info photo.bmp
//	bmptool -convert 24 -o out.bmp photo.bmp
//	bmptool -convert 16:bitfields -o out.bmp photo.bmp
//	bmptool -crop 10,20,64,48 -o out.bmp photo.bmp
//	bmptool -mirror v -o out.bmp photo.bmp
//	bmptool -merge h -o out.bmp left.bmp right.bmp
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/imgtools-dev/bmpio"
)

func main() {
	info := flag.Bool("info", false, "Print header and format details and exit")
	convert := flag.String("convert", "", "Convert to a target format: <bpp> or <bpp>:bitfields, e.g. 24, 8, 32:bitfields")
	crop := flag.String("crop", "", "Crop a rectangle: x,y,width,height")
	mirror := flag.String("mirror", "", "Mirror the image: h (horizontal) or v (vertical)")
	merge := flag.String("merge", "", "Merge two inputs: h (side by side) or v (stacked)")
	output := flag.String("o", "", "Output file (required for every operation except -info)")
	flag.Usage = usage
	flag.Parse()

	if *merge != "" {
		if flag.NArg() != 2 {
			fatalf("-merge needs exactly two input files")
		}
	} else if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: one input file is required")
		usage()
		os.Exit(2)
	}

	b := load(flag.Arg(0))

	if *info {
		printInfo(flag.Arg(0), b)
		return
	}

	switch {
	case *merge != "":
		other := load(flag.Arg(1))
		var merged *bmpio.Bitmap
		var err error
		switch *merge {
		case "h":
			merged, err = bmpio.MergeHorizontally(b, other)
		case "v":
			merged, err = bmpio.MergeVertically(b, other)
		default:
			fatalf("invalid -merge %q: use h or v", *merge)
		}
		if err != nil {
			fatalf("merge failed: %v", err)
		}
		b = merged

	case *crop != "":
		x, y, w, h := parseRect(*crop)
		cropped, err := b.Crop(x, y, w, h)
		if err != nil {
			fatalf("crop failed: %v", err)
		}
		b = cropped

	case *mirror != "":
		switch *mirror {
		case "h":
			b.MirrorHorizontally()
		case "v":
			b.MirrorVertically()
		default:
			fatalf("invalid -mirror %q: use h or v", *mirror)
		}

	case *convert != "":
		// Conversion below; nothing to do here.

	default:
		fmt.Fprintln(os.Stderr, "error: no operation given")
		usage()
		os.Exit(2)
	}

	if *convert != "" {
		bpp, comp := parseFormat(*convert)
		if err := b.ConvertTo(bpp, comp); err != nil {
			fatalf("convert failed: %v", err)
		}
	}

	if *output == "" {
		fatalf("-o is required")
	}
	save(*output, b)
}

func load(path string) *bmpio.Bitmap {
	f, err := os.Open(path)
	if err != nil {
		fatalf("%v", err)
	}
	defer f.Close()
	b, err := bmpio.DecodeFrom(f)
	if err != nil {
		fatalf("decode %s: %v", path, err)
	}
	return b
}

func save(path string, b *bmpio.Bitmap) {
	f, err := os.Create(path)
	if err != nil {
		fatalf("%v", err)
	}
	if err := b.EncodeTo(f); err != nil {
		f.Close()
		fatalf("encode %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		fatalf("%v", err)
	}
}

// parseFormat parses "<bpp>" or "<bpp>:bitfields" into a target format.
func parseFormat(s string) (uint16, bmpio.CompressionType) {
	bppStr, compStr, hasComp := strings.Cut(s, ":")
	bpp, err := strconv.ParseUint(bppStr, 10, 16)
	if err != nil {
		fatalf("invalid -convert %q: %v", s, err)
	}
	comp := bmpio.Uncompressed
	if hasComp {
		if compStr != "bitfields" {
			fatalf("invalid -convert %q: unknown layout %q", s, compStr)
		}
		comp = bmpio.BitFields
	}
	return uint16(bpp), comp
}

// parseRect parses "x,y,width,height".
func parseRect(s string) (x, y, w, h int32) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		fatalf("invalid -crop %q: want x,y,width,height", s)
	}
	vals := make([]int32, 4)
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			fatalf("invalid -crop %q: %v", s, err)
		}
		vals[i] = int32(v)
	}
	return vals[0], vals[1], vals[2], vals[3]
}

func printInfo(path string, b *bmpio.Bitmap) {
	ih := b.InfoHeader
	order := "bottom-up"
	if ih.TopDown {
		order = "top-down"
	}
	fmt.Printf("\n")
	fmt.Printf("  File       : %s\n", path)
	fmt.Printf("  Size       : %d bytes (declared)\n", b.FileHeader.FileSize)
	fmt.Printf("  Dimensions : %dx%d, %s\n", ih.Width, ih.Height, order)
	fmt.Printf("  Format     : %d-bit %s\n", ih.BitsPerPixel, ih.Compression)
	fmt.Printf("  Header     : %d bytes\n", ih.HeaderSize)
	if ih.Compression == bmpio.BitFields {
		fmt.Printf("  Masks      : R=%08X G=%08X B=%08X A=%08X\n",
			ih.RedMask, ih.GreenMask, ih.BlueMask, ih.AlphaMask)
	}
	if len(b.Palette) > 0 {
		fmt.Printf("  Palette    : %d entries\n", len(b.Palette))
	}
	fmt.Printf("  Pixel data : offset %d, %d bytes declared\n",
		b.FileHeader.PixelArrayOffset, ih.ImageSize)
	fmt.Printf("\n")
}

func usage() {
	fmt.Fprintln(os.Stderr, `bmptool — inspect and transform BMP files

Usage:
  bmptool [flags] <input.bmp> [input2.bmp]

Flags:`)
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, `
Examples:
  bmptool -info photo.bmp
  bmptool -convert 24 -o out.bmp photo.bmp
  bmptool -convert 16:bitfields -o out.bmp photo.bmp
  bmptool -crop 10,20,64,48 -o out.bmp photo.bmp
  bmptool -mirror v -o out.bmp photo.bmp
  bmptool -merge h -o out.bmp left.bmp right.bmp
  bmptool -merge v -convert 8 -o out.bmp top.bmp bottom.bmp`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
