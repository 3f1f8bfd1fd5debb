package main

import (
	"log/slog"
	"sync"
	"time"
)

const (
	OUTGOING_EMAILS_BATCH_SIZE = 10

	MAX_FAILED_ATTEMPTS_BEFORE_STOP = 100
)

func main() {
	slog.Info("Starting work order runner")
	start := time.Now()

	var wg sync.WaitGroup

	if conf.RunTasks.ProcessWorkOrders {
		wg.Add(1)
		go handleWorkOrders(&wg)
	}

	if conf.RunTasks.ProcessOutgoingEmails {
		wg.Add(1)
		go handleOutgoingEmails(&wg)
	}

	wg.Wait()
	slog.Info("Work order runner completed", slog.String("duration", time.Since(start).String()))
}

func handleWorkOrders(wg *sync.WaitGroup) {
	defer wg.Done()
	slog.Info("Start handling work orders")

	workOrders, err := workOrderDBService.GetClaimableWorkOrders()
	if err != nil {
		slog.Error("Failed to fetch claimable work orders", slog.String("error", err.Error()))
		return
	}

	for _, wo := range workOrders {
		processWorkOrder(wo)
	}

	slog.Info("Finished handling work orders", slog.Int("count", len(workOrders)))
}
