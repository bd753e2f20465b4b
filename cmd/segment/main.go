// Command segment produces a foreground alpha matte for a raster image using
// a pretrained segmentation model.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"

	// Accept more raster formats than the stdlib pair.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/segmatte/segmatte/internal/matte"
	"github.com/segmatte/segmatte/internal/model"
	"github.com/segmatte/segmatte/internal/onnx"
)

func main() {
	app := &cli.App{
		Name:  "segment",
		Usage: "extract a foreground alpha matte from an image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Value:   "modnet",
				Usage:   "segmentation model to use (modnet or u2net)",
			},
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Required: true,
				Usage:    "path to the source image",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "matte.png",
				Usage:   "path for the matte image",
			},
			&cli.IntFlag{
				Name:  "threads",
				Value: 4,
				Usage: "intra-op threads for the inference runtime",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	kind, err := model.ParseKind(c.String("model"))
	if err != nil {
		return err
	}
	spec := model.SpecFor(kind)

	img, err := imaging.Open(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to open input image: %w", err)
	}

	weights, err := findWeights(spec.WeightsFile)
	if err != nil {
		return err
	}
	log.Printf("Loading %s model from: %s", kind, weights)

	session, err := onnx.Open(spec, weights, onnx.WithThreads(c.Int("threads")))
	if err != nil {
		return err
	}
	defer session.Close()

	result, err := matte.NewPipeline(spec, session).Segment(img)
	if err != nil {
		return err
	}

	output := c.String("output")
	if err := imaging.Save(result.Image(), output); err != nil {
		return fmt.Errorf("failed to save matte: %w", err)
	}
	log.Printf("Saved matte to %s", output)
	return nil
}

// findWeights resolves a weights file under models/, looking next to the
// executable first and falling back to the working directory.
func findWeights(name string) (string, error) {
	rel := filepath.Join("models", name)
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), rel)
		if fileExists(p) {
			return p, nil
		}
	}
	if fileExists(rel) {
		return rel, nil
	}
	return "", fmt.Errorf("cannot find the model %s", rel)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
