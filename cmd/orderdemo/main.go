// Command orderdemo trains the demand model on the built-in two-week sample
// and forecasts one day read from the terminal.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/kartoza/order-planner/internal/dataset"
	"github.com/kartoza/order-planner/internal/forecast"
	"github.com/kartoza/order-planner/internal/staffing"
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(in io.Reader, out io.Writer) error {
	model, err := forecast.Fit(dataset.Sample())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Model trained successfully.")

	fmt.Fprintln(out, "\nEnter data to forecast orders:")
	scanner := bufio.NewScanner(in)

	day, err := prompt(scanner, out, "Day of week (1-7): ", strconv.Atoi)
	if err != nil {
		return err
	}
	temp, err := prompt(scanner, out, "Estimated temperature: ", parseTemperature)
	if err != nil {
		return err
	}
	holiday, err := prompt(scanner, out, "Holiday? (0=no, 1=yes): ", parseHoliday)
	if err != nil {
		return err
	}

	scenario := forecast.Scenario{DayOfWeek: day, Temperature: temp, IsHoliday: holiday}
	result, err := staffing.Evaluate(model, scenario, staffing.DefaultParams())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nEstimated orders: %d\n", result.EstimatedOrders)
	fmt.Fprintf(out, "Demand level: %s\n", result.DemandLevel)
	fmt.Fprintf(out, "Recommended staff (%d orders/worker, %.0f%% margin): %d\n",
		staffing.DefaultCapacityPerWorker, staffing.DefaultSafetyMargin*100, result.RecommendedStaff)
	fmt.Fprintln(out, "\nExplanation:")
	fmt.Fprintln(out, "This forecast comes from a regression trained on historical order data.")
	fmt.Fprintln(out, "It lets the business plan delivery staff and reduce logistics costs.")

	writeFitTable(out, model)
	return nil
}

// prompt writes label, reads one line and parses it
func prompt[T any](scanner *bufio.Scanner, out io.Writer, label string, parse func(string) (T, error)) (T, error) {
	var zero T
	fmt.Fprint(out, label)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return zero, err
		}
		return zero, fmt.Errorf("%w: no input for %q", forecast.ErrInvalidScenario, strings.TrimSpace(label))
	}
	text := strings.TrimSpace(scanner.Text())
	v, err := parse(text)
	if err != nil {
		return zero, fmt.Errorf("%w: cannot parse %q for %q", forecast.ErrInvalidScenario, text, strings.TrimSpace(label))
	}
	return v, nil
}

func parseTemperature(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < forecast.MinTemperature || v > forecast.MaxTemperature {
		return 0, fmt.Errorf("temperature must be between %v and %v", forecast.MinTemperature, forecast.MaxTemperature)
	}
	return v, nil
}

func parseHoliday(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("holiday must be 0 or 1")
}

// writeFitTable prints actual vs predicted orders over the sample history
func writeFitTable(out io.Writer, model *forecast.TrainedModel) {
	fmt.Fprintln(out, "\nActual vs predicted orders:")
	fmt.Fprintf(out, "%8s %10s\n", "actual", "predicted")
	for _, p := range model.Fitted() {
		fmt.Fprintf(out, "%8.0f %10.1f\n", p.Actual, p.Predicted)
	}
}
