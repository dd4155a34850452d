package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/folio-dev/folio/backend/internal/imageopt"
	"github.com/folio-dev/folio/shared/logger"
)

func main() {
	var (
		src      string
		outDir   string
		maxWidth int
	)
	flag.StringVar(&src, "src", "frontend/static/images/profil.jpeg", "source photo (jpeg, png, gif or webp)")
	flag.StringVar(&outDir, "out", "frontend/static/images", "output directory")
	flag.IntVar(&maxWidth, "max-width", 0, "downscale wider sources to this width (0 keeps the original)")
	flag.Parse()

	variants, err := imageopt.Optimize(src, outDir, imageopt.Options{MaxWidth: maxWidth})
	if err != nil {
		logger.Log.Error("image optimization failed", "src", src, "error", err)
		os.Exit(1)
	}

	for _, v := range variants {
		fmt.Printf("✓ %s %dx%d (%.1f KB)\n", v.Name, v.Width, v.Height, float64(v.Bytes)/1024)
	}
}
