package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"airsat/config"
	"airsat/ml"
)

const (
	exitInput       = 2
	exitUnavailable = 3
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	modelPath := flag.String("model", "", "model artifact path (overrides config)")
	modelType := flag.String("type", "", "model type: decision_tree or random_forest (overrides config)")
	inputPath := flag.String("input", "-", "passenger JSON file, - for stdin")
	showFeatures := flag.Bool("features", false, "print the encoded feature vector")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *modelPath != "" {
		cfg.Model.Path = *modelPath
	}
	if *modelType != "" {
		cfg.Model.Type = *modelType
	}

	in, err := readPassenger(*inputPath)
	if err != nil {
		log.Printf("failed to read passenger: %v", err)
		os.Exit(exitInput)
	}

	os.Exit(run(os.Stdout, cfg, in, *showFeatures))
}

func run(out io.Writer, cfg *config.Config, in ml.PassengerInput, showFeatures bool) int {
	// Validate the input before touching the artifact so that input errors are
	// reported even when the model is missing.
	features, err := ml.Encode(in)
	if err != nil {
		fmt.Fprintf(out, "invalid input: %v\n", err)
		return exitInput
	}

	model, err := ml.LoadModel(cfg.Model.Type, cfg.Model.Path)
	if err != nil {
		fmt.Fprintf(out, "classifier unavailable: %v\n", err)
		return exitUnavailable
	}

	prediction, err := ml.NewPredictor(model).PredictVector(features)
	if err != nil {
		if errors.Is(err, ml.ErrClassifierUnavailable) {
			fmt.Fprintf(out, "classifier unavailable: %v\n", err)
			return exitUnavailable
		}
		fmt.Fprintf(out, "prediction failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "Prediction: %s (confidence %.2f)\n", prediction.Display(), prediction.Confidence)
	if showFeatures {
		names := ml.FeatureNames()
		for i, v := range prediction.Features {
			fmt.Fprintf(out, "  %-22s %g\n", names[i], v)
		}
	}
	return 0
}

func readPassenger(path string) (ml.PassengerInput, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return ml.PassengerInput{}, err
		}
		defer file.Close()
		r = file
	}
	return ml.DecodePassenger(r)
}
