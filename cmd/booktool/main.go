// booktool is a CLI utility for inspecting, rendering and exporting books
// without a window.
package main

import (
	"flag"
	"fmt"
	"image"
	gomath "math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/bookmock/internal/assets"
	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/internal/config"
	"github.com/Faultbox/bookmock/internal/engine/camera"
	"github.com/Faultbox/bookmock/internal/engine/softraster"
	"github.com/Faultbox/bookmock/internal/engine/texture"
	"github.com/Faultbox/bookmock/internal/export"
	"github.com/Faultbox/bookmock/internal/logger"
)

// tickRate is the frame rate -settle simulates.
const tickRate = 60.0

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "render":
		cmdRender(args)
	case "export":
		cmdExport(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`booktool - parametric book utility

Usage:
  booktool <command> [options]

Commands:
  info                 Show derived geometry, texture map and bounds
  render -o out.png    Render a PNG with the software rasterizer
  export -o out.stl    Export the posed book as STL (millimetres)

Book options (all commands):
  -config file  -width mm  -height mm  -spine mm  -open ratio
  -binding swiss|classic  -pages=false  -color #rrggbb  -cover image

Examples:
  booktool info -width 210 -height 297 -spine 12
  booktool render -cover wrap.jpg -open 0.3 -o book.png
  booktool render -open 1 -settle 0.2 -o midway.png
  booktool export -solid -round 1 -open 1 -o book.stl`)
}

// bookFlags are the book options shared by every command. Flags override
// the config preset only when given.
type bookFlags struct {
	fs      *flag.FlagSet
	config  *string
	width   *float64
	height  *float64
	spine   *float64
	open    *float64
	binding *string
	pages   *bool
	color   *string
	cover   *string
	debug   *bool
}

func addBookFlags(fs *flag.FlagSet) *bookFlags {
	return &bookFlags{
		fs:      fs,
		config:  fs.String("config", "", "Config file for presets and render settings"),
		width:   fs.Float64("width", 0, "Width in mm"),
		height:  fs.Float64("height", 0, "Height in mm"),
		spine:   fs.Float64("spine", 0, "Spine width in mm"),
		open:    fs.Float64("open", 0, "Open ratio, 0 closed to 1 flat"),
		binding: fs.String("binding", "", "Binding: swiss or classic"),
		pages:   fs.Bool("pages", true, "Show the page block"),
		color:   fs.String("color", "", "Cover colour (#rrggbb or name)"),
		cover:   fs.String("cover", "", "Cover image laid out front|spine|back"),
		debug:   fs.Bool("debug", false, "Enable debug logging"),
	}
}

// load resolves config and flags into a spec, decoding the cover if any.
func (f *bookFlags) load() (*config.Config, book.Spec, error) {
	cfg, err := config.LoadFile(*f.config)
	if err != nil {
		return nil, book.Spec{}, err
	}

	level := "warn"
	if *f.debug {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		return nil, book.Spec{}, err
	}

	var visitErr error
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "width":
			cfg.Book.WidthMm = *f.width
		case "height":
			cfg.Book.HeightMm = *f.height
		case "spine":
			cfg.Book.SpineMm = *f.spine
		case "open":
			cfg.Book.OpenRatio = *f.open
		case "pages":
			cfg.Book.ShowPages = *f.pages
		case "color":
			cfg.Book.CoverColor = *f.color
		case "cover":
			cfg.Book.CoverImage = *f.cover
		case "binding":
			b, err := book.ParseBinding(*f.binding)
			if err != nil {
				visitErr = err
			}
			cfg.Book.Binding = b
		}
	})
	if visitErr != nil {
		return nil, book.Spec{}, visitErr
	}

	spec, err := cfg.Book.Spec()
	if err != nil {
		return nil, book.Spec{}, err
	}
	if cfg.Book.CoverImage != "" {
		covers := assets.NewManager(func(path string) (image.Image, error) {
			return texture.LoadCover(path, cfg.Render.MaxTextureSize)
		})
		if cfg.Path() != "" {
			if err := covers.AddRoot(filepath.Dir(cfg.Path())); err != nil {
				return nil, book.Spec{}, err
			}
		}
		img, _, err := covers.Image(cfg.Book.CoverImage)
		if err != nil {
			return nil, book.Spec{}, err
		}
		spec.Cover = img
	}
	return cfg, spec, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	bf := addBookFlags(fs)
	fs.Parse(args)

	_, spec, err := bf.load()
	if err != nil {
		fail(err)
	}
	b := book.New(spec)
	d := b.Dimensions()

	pages := "no pages"
	if spec.ShowPages {
		pages = "pages on the " + spec.Binding.Carrier().String() + " cover"
	}
	fmt.Printf("Book:      %.0f x %.0f x %.0f mm, %s binding, %s\n",
		spec.WidthMm, spec.HeightMm, spec.SpineMm, spec.Binding, pages)
	fmt.Printf("Units:     width %.4f  height %.4f  spine %.4f  board %.4f\n",
		d.Width, d.Height, d.Spine, d.CoverThickness)
	block := d.PageBlockSize()
	fmt.Printf("Pages:     %.4f x %.4f x %.4f\n", block.X, block.Y, block.Z)
	fmt.Printf("Wrap:      %.4f units across\n", d.TotalWidth())
	fmt.Println()

	fmt.Println("Texture map:")
	tm := b.TextureMap()
	for _, p := range book.Panels {
		fmt.Printf("  %-6s offset %.4f  repeat %.4f\n", p, tm[p].OffsetX, tm[p].RepeatX)
	}
	fmt.Println()

	target := b.Target()
	fmt.Printf("Hinge:     front %.1f deg  back %.1f deg  (open %.2f)\n",
		degrees(target.Front), degrees(target.Back), spec.OpenRatio)
	lo, hi := b.Assembly().Bounds(target)
	fmt.Printf("Bounds:    (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	fmt.Println()

	fmt.Println("Parts:")
	for _, p := range b.Assembly().Parts(target) {
		c := p.World.TransformPoint([3]float32{})
		fmt.Printf("  %-12s size %.3f x %.3f x %.3f  at (%.3f, %.3f, %.3f)\n",
			p.Name, p.Size.X, p.Size.Y, p.Size.Z, c[0], c[1], c[2])
	}
}

func cmdRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	bf := addBookFlags(fs)
	output := fs.String("o", "book.png", "Output PNG")
	size := fs.String("size", "", "Image size WxH (default from config)")
	settle := fs.Float64("settle", 0, "Seconds of animation from closed; 0 renders the final pose")
	yaw := fs.Float64("yaw", 0, "Camera yaw in degrees")
	pitch := fs.Float64("pitch", 14, "Camera pitch in degrees")
	fs.Parse(args)

	cfg, spec, err := bf.load()
	if err != nil {
		fail(err)
	}

	opts := softraster.DefaultOptions()
	opts.Width, opts.Height = cfg.Render.SnapshotWidth, cfg.Render.SnapshotHeight
	if *size != "" {
		if opts.Width, opts.Height, err = parseSize(*size); err != nil {
			fail(err)
		}
	}
	opts.Supersample = cfg.Render.Supersample
	opts.Sun = cfg.Render.Sun()
	if bg, err := cfg.Render.BackgroundColor(); err == nil {
		opts.Background = bg
	}

	b := book.New(spec, book.WithHingeSpeed(cfg.Animation.HingeSpeed))
	hinge := b.Target()
	if *settle > 0 {
		for t := 0.0; t < *settle; t += 1 / tickRate {
			b.Tick(1 / tickRate)
		}
		hinge = b.Hinge()
	}

	cam := camera.NewOrbitCamera()
	cam.RotationY = float32(*yaw * gomath.Pi / 180)
	cam.RotationX = float32(*pitch * gomath.Pi / 180)
	cam.FitToBounds(b.Assembly().Bounds(book.TargetHinge(1)))
	opts.Camera = cam

	img, err := softraster.Render(b.Assembly().Parts(hinge), opts)
	if err != nil {
		fail(err)
	}
	if err := softraster.SavePNG(*output, img); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", *output, opts.Width, opts.Height)
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	bf := addBookFlags(fs)
	output := fs.String("o", "book.stl", "Output STL")
	solid := fs.Bool("solid", false, "Rebuild as a rounded solid (slower)")
	round := fs.Float64("round", 0.5, "Edge radius in mm for -solid")
	cells := fs.Int("cells", 200, "Marching cubes resolution for -solid")
	fs.Parse(args)

	_, spec, err := bf.load()
	if err != nil {
		fail(err)
	}

	b := book.New(spec)
	opts := export.DefaultOptions()
	opts.Solid = *solid
	opts.Round = *round
	opts.Cells = *cells

	if err := export.WriteSTL(*output, b.Assembly(), b.Target(), opts); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s\n", *output)
}

func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q is not WxH", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("size %q must be positive", s)
	}
	return width, height, nil
}

func degrees(rad float64) float64 {
	return rad * 180 / gomath.Pi
}
