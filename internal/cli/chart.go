package cli

import (
	"fmt"
	"strings"

	"risklab/internal/models"
)

// renderPayoffASCII renders an expiration P&L curve as an ASCII chart with a
// zero line.
func renderPayoffASCII(curve []models.PayoffPoint, width, height int) string {
	if len(curve) == 0 {
		return "No data to display"
	}

	minPnL := curve[0].PnL
	maxPnL := curve[0].PnL
	for _, point := range curve {
		if point.PnL < minPnL {
			minPnL = point.PnL
		}
		if point.PnL > maxPnL {
			maxPnL = point.PnL
		}
	}

	pnlRange := maxPnL - minPnL
	if pnlRange == 0 {
		pnlRange = 1
	}
	minPnL -= pnlRange * 0.05
	maxPnL += pnlRange * 0.05
	pnlRange = maxPnL - minPnL

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	// Zero P&L line, if it falls inside the range.
	if minPnL < 0 && maxPnL > 0 {
		zeroY := int((0 - minPnL) / pnlRange * float64(height-1))
		for x := 0; x < width; x++ {
			grid[height-1-zeroY][x] = '·'
		}
	}

	step := len(curve) / width
	if step == 0 {
		step = 1
	}
	for x := 0; x < width && x*step < len(curve); x++ {
		point := curve[x*step]
		y := int((point.PnL - minPnL) / pnlRange * float64(height-1))
		if y >= 0 && y < height {
			grid[height-1-y][x] = '█'
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("P&L at Expiration (%.2f to %.2f, price %.2f to %.2f)\n",
		minPnL, maxPnL, curve[0].Price, curve[len(curve)-1].Price))
	sb.WriteString(strings.Repeat("─", width+2) + "\n")

	for _, row := range grid {
		sb.WriteRune('│')
		sb.WriteString(string(row))
		sb.WriteRune('│')
		sb.WriteRune('\n')
	}

	sb.WriteString(strings.Repeat("─", width+2) + "\n")
	return sb.String()
}

// renderHistogramASCII renders histogram bins as horizontal bars.
func renderHistogramASCII(bins []models.HistogramBin, barWidth int) string {
	if len(bins) == 0 {
		return ""
	}

	maxFreq := bins[0].Frequency
	for _, bin := range bins {
		if bin.Frequency > maxFreq {
			maxFreq = bin.Frequency
		}
	}
	if maxFreq == 0 {
		maxFreq = 1
	}

	var sb strings.Builder
	for _, bin := range bins {
		filled := int(bin.Frequency / maxFreq * float64(barWidth))
		bar := strings.Repeat("█", filled)
		sb.WriteString(fmt.Sprintf("%9.1f to %9.1f  %-*s %5.1f%%\n",
			bin.Low, bin.High, barWidth, bar, bin.Frequency))
	}
	return sb.String()
}
