package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go-grad/autograd"
	"go-grad/moons"
	"go-grad/nn"
	"go-grad/utility"
	"go-grad/value"
)

type Config struct {
	moons.RunConfig
	SavePath string
	LoadPath string
	DotPath  string
	Plot     bool
}

func (c *Config) Validate() error {
	if err := c.RunConfig.Validate(); err != nil {
		return err
	}
	if c.LoadPath != "" && c.LoadPath == c.SavePath {
		return fmt.Errorf("-load and -save point at the same file %s", c.LoadPath)
	}
	return nil
}

func main() {
	cfg := &Config{}
	cfg.RegisterFlags(flag.CommandLine)
	flag.StringVar(&cfg.SavePath, "save", "moons_mlp.gob", "where to write the trained model (empty to skip)")
	flag.StringVar(&cfg.LoadPath, "load", "", "start from a model saved by an earlier run")
	flag.StringVar(&cfg.DotPath, "dot", "", "write the graphviz graph of the first sample's score to this file")
	flag.BoolVar(&cfg.Plot, "plot", true, "print the decision boundary after training")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// -- Data and Model --
	setup, err := cfg.NewSetup()
	if err != nil {
		log.Fatalf("Failed to set up run: %v", err)
	}
	model := setup.Model

	if cfg.LoadPath != "" {
		fmt.Printf("Loading model from %s...\n", cfg.LoadPath)
		model, err = nn.LoadMLPFile(cfg.LoadPath)
		if err != nil {
			log.Fatalf("Error loading model: %v", err)
		}
	}

	fmt.Printf("train: %s\n", setup.Train.Summarize())
	fmt.Printf("test:  %s\n", setup.Test.Summarize())
	if err := utility.NewModelInspector(model).Summary(os.Stdout); err != nil {
		log.Fatalf("Error printing summary: %v", err)
	}

	if cfg.DotPath != "" {
		if err := writeDot(cfg.DotPath, model, setup.Train.X[0]); err != nil {
			log.Fatalf("Error writing graph: %v", err)
		}
		fmt.Printf("Wrote computation graph to %s\n", cfg.DotPath)
	}

	// -- Training Loop --
	trainer, err := moons.NewTrainer(model, setup.Train, cfg.TrainConfig(), setup.Rand)
	if err != nil {
		log.Fatalf("Failed to create trainer: %v", err)
	}

	fmt.Println("\n--- Starting Training ---")
	start := time.Now()
	err = trainer.Run(func(res moons.StepResult) {
		percentComplete := float64(res.Step+1) / float64(cfg.Steps) * 100
		fmt.Printf("\rStep %d/%d [%-50s] %3.0f%% - Loss: %.4f - Acc: %5.1f%% - LR: %.3f",
			res.Step+1,
			cfg.Steps,
			buildProgressBar(percentComplete),
			percentComplete,
			res.Loss,
			res.Accuracy*100,
			res.LearningRate)
	})
	fmt.Println()
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}
	fmt.Printf("Training completed in %v.\n", time.Since(start).Round(time.Millisecond))

	// -- Evaluation --
	trainAcc, err := moons.Evaluate(model, setup.Train, 0)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	testAcc, err := moons.Evaluate(model, setup.Test, 0)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	fmt.Printf("Train Accuracy: %.2f%%\nTest Accuracy: %.2f%%\n", trainAcc*100, testAcc*100)

	if cfg.Plot {
		plot, err := moons.Boundary(model, setup.Train, 60, 24)
		if err != nil {
			log.Fatalf("Error drawing boundary: %v", err)
		}
		fmt.Println()
		fmt.Print(plot)
	}

	// -- Save the Trained Model --
	if cfg.SavePath == "" {
		return
	}
	fmt.Printf("\nSaving trained model to %s...\n", cfg.SavePath)
	if err := model.SaveFile(cfg.SavePath); err != nil {
		log.Fatalf("Error saving model: %v", err)
	}

	// reload and check the copy scores the same
	loaded, err := nn.LoadMLPFile(cfg.SavePath)
	if err != nil {
		log.Fatalf("Error loading model: %v", err)
	}
	loadedAcc, err := moons.Evaluate(loaded, setup.Test, 0)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	fmt.Printf("Accuracy of loaded model: %.2f%%\n", loadedAcc*100)
}

func writeDot(path string, model *nn.MLP, x []float64) error {
	out, err := model.ForwardScalar(value.NewSlice(x))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file %s: %w", path, err)
	}
	if err := autograd.WriteDOT(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// buildProgressBar is a helper function to create the visual progress bar string.
func buildProgressBar(percent float64) string {
	barWidth := 50
	progress := min(int(percent/100.0*float64(barWidth)), barWidth)

	bar := strings.Repeat("=", progress)
	if progress < barWidth {
		bar += ">" + strings.Repeat(" ", barWidth-progress-1)
	}
	return bar
}
