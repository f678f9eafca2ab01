package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go-grad/moons"
	"go-grad/utility"
)

func main() {
	cfg := &moons.RunConfig{}
	cfg.RegisterFlags(flag.CommandLine)
	evalEvery := flag.Int("eval-every", 5, "evaluate on the held-out points every n steps")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *evalEvery <= 0 {
		log.Fatalf("Invalid configuration: eval-every must be positive, got %d", *evalEvery)
	}

	// PHASE 1: PRE-TUI SETUP AND CONSOLE OUTPUT
	fmt.Println("--- go-grad two-moons trainer ---")
	fmt.Println("Initializing model...")

	setup, err := cfg.NewSetup()
	if err != nil {
		log.Fatalf("Failed to set up run: %v", err)
	}
	if err := utility.NewModelInspector(setup.Model).Summary(os.Stdout); err != nil {
		log.Fatalf("Error printing summary: %v", err)
	}
	fmt.Printf("train: %s\n", setup.Train.Summarize())

	trainer, err := moons.NewTrainer(setup.Model, setup.Train, cfg.TrainConfig(), setup.Rand)
	if err != nil {
		log.Fatalf("Failed to create trainer: %v", err)
	}
	fmt.Println("Initializing TUI...")
	time.Sleep(time.Second)

	// PHASE 2: TUI-ONLY MODE
	dashboard, err := utility.NewTrainingDashboard(setup.Model.Name(), cfg.TrainConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer dashboard.Close()

	go func() {
		start := time.Now()
		err := trainer.Run(func(res moons.StepResult) {
			dashboard.UpdateStats(res, cfg.Steps, start)

			// evaluation reads the parameters, so it runs between steps, never during one
			if (res.Step+1)%*evalEvery == 0 || res.Step+1 == cfg.Steps {
				acc, err := moons.Evaluate(setup.Model, setup.Test, 0)
				if err != nil {
					dashboard.Log(fmt.Sprintf("Evaluation failed: %v", err))
					return
				}
				dashboard.AddAccuracy(acc)
				dashboard.Log(fmt.Sprintf("Step %d: held-out accuracy %.1f%%", res.Step+1, acc*100))
			}
		})
		if err != nil {
			dashboard.Log(fmt.Sprintf("Training failed: %v. Press 'q' or <C-c> to exit.", err))
			return
		}
		dashboard.Log("Training complete! Press 'q' or <C-c> to exit.")
	}()

	dashboard.Loop()
}
