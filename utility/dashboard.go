package utility

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"go-grad/moons"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

// manages the TUI for real-time training monitoring.
type TrainingDashboard struct {
	grid *ui.Grid

	lossPlot     *widgets.Plot
	accuracyPlot *widgets.Plot

	progressGauge *widgets.Gauge
	progressList  *widgets.List
	systemList    *widgets.List
	logParagraph  *widgets.Paragraph

	// termui plots need at least two points per series
	fullLossData     []float64
	fullAccuracyData []float64
	renderMutex      sync.Mutex
}

func NewTrainingDashboard(model string, cfg moons.Config) (*TrainingDashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize termui: %w", err)
	}

	d := &TrainingDashboard{
		fullLossData:     []float64{0, 0},
		fullAccuracyData: []float64{0, 0},
	}

	d.lossPlot = widgets.NewPlot()
	d.lossPlot.Title = "Hinge + L2 Loss"
	d.lossPlot.Data = [][]float64{d.fullLossData}
	d.lossPlot.LineColors[0] = ui.ColorRed

	d.accuracyPlot = widgets.NewPlot()
	d.accuracyPlot.Title = "Held-out Accuracy (%)"
	d.accuracyPlot.Data = [][]float64{d.fullAccuracyData}
	d.accuracyPlot.LineColors[0] = ui.ColorGreen

	d.progressGauge = widgets.NewGauge()
	d.progressGauge.Title = "SGD Steps"
	d.progressGauge.BarColor = ui.ColorBlue
	d.systemList = widgets.NewList()
	d.systemList.Title = "Graph & Timing"
	d.progressList = widgets.NewList()
	d.progressList.Title = "Training Status"
	hyperParamList := widgets.NewList()
	hyperParamList.Title = "Hyperparameters"
	hyperParamList.Rows = []string{
		model,
		fmt.Sprintf("Steps: %d", cfg.Steps),
		fmt.Sprintf("Batch Size: %d", cfg.BatchSize),
		fmt.Sprintf("Learn Rate: %.4f", cfg.LearningRate),
		fmt.Sprintf("Alpha: %g", cfg.Alpha),
	}
	hyperParamList.WrapText = true
	d.logParagraph = widgets.NewParagraph()
	d.logParagraph.Title = "Event Log"

	d.grid = ui.NewGrid()
	termWidth, termHeight := ui.TerminalDimensions()
	d.grid.SetRect(0, 0, termWidth, termHeight)
	d.grid.Set(
		ui.NewRow(0.4, ui.NewCol(0.5, d.lossPlot), ui.NewCol(0.5, d.accuracyPlot)),
		ui.NewRow(0.3, ui.NewCol(0.34, d.progressList), ui.NewCol(0.33, d.systemList), ui.NewCol(0.33, hyperParamList)),
		ui.NewRow(0.3, ui.NewCol(1.0, ui.NewRow(0.4, d.progressGauge), ui.NewRow(0.6, d.logParagraph))),
	)

	return d, nil
}

// downsample averages a slice of data to fit a target width so the plot stays inside its cell
func downsample(data []float64, targetWidth int) []float64 {
	if targetWidth <= 0 || len(data) <= targetWidth {
		return data
	}

	downsampled := make([]float64, targetWidth)
	binSize := float64(len(data)) / float64(targetWidth)

	for i := 0; i < targetWidth; i++ {
		start := int(float64(i) * binSize)
		end := min(int(float64(i+1)*binSize), len(data))

		bin := data[start:end]
		if len(bin) == 0 {
			if i > 0 {
				downsampled[i] = downsampled[i-1]
			}
			continue
		}

		var sum float64
		for _, v := range bin {
			sum += v
		}
		downsampled[i] = sum / float64(len(bin))
	}
	return downsampled
}

// update the dashboard after one optimization step.
func (d *TrainingDashboard) UpdateStats(res moons.StepResult, totalSteps int, startTime time.Time) {
	d.renderMutex.Lock()
	defer d.renderMutex.Unlock()

	done := res.Step + 1
	d.progressList.Rows = []string{
		fmt.Sprintf("Step: %d / %d", done, totalSteps),
		fmt.Sprintf("Loss: %.4f", res.Loss),
		fmt.Sprintf("Batch Accuracy: %.1f%%", res.Accuracy*100),
		fmt.Sprintf("Learn Rate: %.4f", res.LearningRate),
		fmt.Sprintf("Grad Norm: %.4f", res.GradNorm),
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	d.systemList.Rows = append(graphRows(res, totalSteps, time.Since(startTime)),
		"---",
		fmt.Sprintf("Heap Alloc: %d MiB", memStats.Alloc/1024/1024),
		fmt.Sprintf("Goroutines: %d", runtime.NumGoroutine()),
	)
	d.progressGauge.Percent = done * 100 / totalSteps

	d.fullLossData = append(d.fullLossData, res.Loss)
	d.lossPlot.Data[0] = downsample(d.fullLossData, d.lossPlot.Inner.Dx())

	ui.Render(d.grid)
}

// graphRows describes the size of the step's graph and how fast steps go.
func graphRows(res moons.StepResult, totalSteps int, elapsed time.Duration) []string {
	done := res.Step + 1
	perStep := elapsed / time.Duration(done)
	eta := perStep * time.Duration(max(totalSteps-done, 0))
	var nodeRate float64
	if perStep > 0 {
		nodeRate = float64(res.Nodes) / perStep.Seconds()
	}
	return []string{
		fmt.Sprintf("Graph Nodes: %d", res.Nodes),
		fmt.Sprintf("Nodes/s: %.0f", nodeRate),
		fmt.Sprintf("Per Step: %v", perStep.Round(time.Microsecond)),
		fmt.Sprintf("Total Time: %v  ETA: %v", elapsed.Round(time.Millisecond), eta.Round(time.Second)),
	}
}

// appends a new accuracy value and triggers a re-render.
func (d *TrainingDashboard) AddAccuracy(accuracy float64) {
	d.renderMutex.Lock()
	defer d.renderMutex.Unlock()

	d.fullAccuracyData = append(d.fullAccuracyData, accuracy*100)
	d.accuracyPlot.Data[0] = downsample(d.fullAccuracyData, d.accuracyPlot.Inner.Dx())

	ui.Render(d.grid)
}

// prints a message to the event log panel.
func (d *TrainingDashboard) Log(message string) {
	d.renderMutex.Lock()
	defer d.renderMutex.Unlock()
	d.logParagraph.Text = message
	ui.Render(d.grid)
}

// utility functions - close and loop
func (d *TrainingDashboard) Close() { ui.Close() }
func (d *TrainingDashboard) Loop() {
	uiEvents := ui.PollEvents()
	for {
		e := <-uiEvents
		switch e.ID {
		case "q", "<C-c>":
			return
		case "<Resize>":
			payload := e.Payload.(ui.Resize)
			d.renderMutex.Lock()
			d.grid.SetRect(0, 0, payload.Width, payload.Height)
			ui.Clear()
			ui.Render(d.grid)
			d.renderMutex.Unlock()
		}
	}
}
