package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	megatec "github.com/piotrmaciejbednarski/megatec-ups-control"
	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/protocol"
	"github.com/rivo/tview"
)

var (
	vendorID  = flag.String("vid", "0x0001", "vendor id of the UPS")
	productID = flag.String("pid", "0x0000", "product id of the UPS")
	interval  = flag.Duration("interval", 5*time.Second, "status poll interval")
	noAck     = flag.Bool("no-ack", false, "poll without the acknowledgment handshake")
)

var statusLabels = []string{
	"Input voltage",
	"Input fault voltage",
	"Output voltage",
	"Load",
	"Input frequency",
	"Battery voltage",
	"Temperature",
}

func main() {
	flag.Parse()

	vid, err := parseID(*vendorID)
	if err != nil {
		log.Fatalf("Invalid vendor id %q: %v", *vendorID, err)
	}
	pid, err := parseID(*productID)
	if err != nil {
		log.Fatalf("Invalid product id %q: %v", *productID, err)
	}

	ups, err := megatec.Open(vid, pid)
	if err != nil {
		log.Fatalf("Failed to open UPS: %v", err)
	}
	defer ups.Close()

	name, err := ups.Name()
	if err != nil {
		log.Fatalf("Failed to read name: %v", err)
	}

	app := tview.NewApplication()

	status := tview.NewTable()
	status.SetBorder(true).SetTitle(fmt.Sprintf(" %s ", name))
	for i, label := range statusLabels {
		status.SetCellSimple(i, 0, label)
		status.SetCellSimple(i, 1, "-")
	}

	logView := tview.NewTextView().SetMaxLines(64).SetChangedFunc(func() {
		app.Draw()
	})
	logView.SetBorder(true).SetTitle("Log")
	log.SetOutput(logView)

	help := tview.NewTextView().
		SetText("t: 10s test   l: test until battery low   a: abort test   b: beeper   q: quit")

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(status, len(statusLabels)+2, 0, true).
		AddItem(logView, 0, 1, false).
		AddItem(help, 1, 0, false)

	// The device serializes on its single control pipe, so every operation
	// funnels through one worker.
	ops := make(chan func(), 8)
	go func() {
		for op := range ops {
			op()
		}
	}()

	enqueue := func(label string, op func() error) {
		select {
		case ops <- func() {
			if err := op(); err != nil {
				log.Printf("%s failed: %v", label, err)
				return
			}
			log.Printf("%s ok", label)
		}:
		default:
			log.Printf("%s dropped: device busy", label)
		}
	}

	refresh := func() {
		st, err := readStatus(ups)
		if err != nil {
			log.Printf("status poll failed: %v", err)
			return
		}
		app.QueueUpdateDraw(func() {
			status.SetCellSimple(0, 1, fmt.Sprintf("%.1f V", st.InputVoltage))
			status.SetCellSimple(1, 1, fmt.Sprintf("%.1f V", st.InputFaultVoltage))
			status.SetCellSimple(2, 1, fmt.Sprintf("%.1f V", st.OutputVoltage))
			status.SetCellSimple(3, 1, fmt.Sprintf("%.0f %%", st.OutputCurrent))
			status.SetCellSimple(4, 1, fmt.Sprintf("%.1f Hz", st.InputFrequency))
			status.SetCellSimple(5, 1, fmt.Sprintf("%.2f V", st.BatteryVoltage))
			status.SetCellSimple(6, 1, fmt.Sprintf("%.1f C", st.Temperature))
		})
	}

	go func() {
		ops <- refresh
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()
		for range ticker.C {
			select {
			case ops <- refresh:
			default:
			}
		}
	}()

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q':
			app.Stop()
			return nil
		case 't':
			enqueue("self test", ups.Test)
		case 'l':
			enqueue("test until battery low", ups.TestUntilBatteryLow)
		case 'a':
			enqueue("abort test", ups.AbortTest)
		case 'b':
			enqueue("beeper toggle", ups.ToggleBeep)
		}
		return event
	})

	if err := app.SetRoot(flex, true).Run(); err != nil {
		panic(err)
	}
}

func readStatus(ups *megatec.UPS) (*protocol.Status, error) {
	if *noAck {
		return ups.StatusNoAck()
	}
	return ups.Status()
}

func parseID(s string) (uint16, error) {
	id, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(id), nil
}
