// Command tester plays random conversations against a running bot and
// prints how each session ended.
package main

import (
	"bytes"
	"churn-bot/api"
	"churn-bot/domain"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

type outcome struct {
	signal   string
	messages int
	duration time.Duration
	err      error
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the bot")
	sessions := flag.Int("sessions", 20, "Number of concurrent conversations")
	typos := flag.Float64("typos", 0.2, "Probability of sending an invalid number first")
	flag.Parse()

	client := &http.Client{Timeout: 15 * time.Second}
	schema := domain.ChurnSchema(false)

	outcomes := make([]outcome, *sessions)
	var wg sync.WaitGroup
	for i := range outcomes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = converse(client, *baseURL, schema, *typos)
		}(i)
	}
	wg.Wait()

	render(outcomes)
	if lo.SomeBy(outcomes, func(o outcome) bool { return o.err != nil }) {
		os.Exit(1)
	}
}

// converse answers every question with a random valid value.
func converse(client *http.Client, baseURL string, schema domain.Schema, typos float64) outcome {
	sessionID := uuid.NewString()
	start := time.Now()
	texts := []string{"/predict"}
	for _, field := range schema.Fields() {
		switch field.Kind {
		case domain.Numeric:
			if rand.Float64() < typos {
				texts = append(texts, "not a number")
			}
			texts = append(texts, strconv.FormatFloat(rand.Float64()*100, 'f', 2, 64))
		case domain.Categorical:
			texts = append(texts, lo.Sample(field.Choices))
		}
	}

	var last api.MessageResponse
	for i, text := range texts {
		response, err := send(client, baseURL, sessionID, text)
		if err != nil {
			return outcome{messages: i, duration: time.Since(start), err: err}
		}
		last = response
	}
	return outcome{signal: last.Signal, messages: len(texts), duration: time.Since(start)}
}

func send(client *http.Client, baseURL, sessionID, text string) (api.MessageResponse, error) {
	body, err := json.Marshal(api.MessageRequest{Text: text})
	if err != nil {
		return api.MessageResponse{}, err
	}
	url := fmt.Sprintf("%s/sessions/%s/messages", baseURL, sessionID)
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return api.MessageResponse{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return api.MessageResponse{}, fmt.Errorf("%s: status %d", sessionID, resp.StatusCode)
	}
	var reply api.MessageResponse
	return reply, json.NewDecoder(resp.Body).Decode(&reply)
}

func render(outcomes []outcome) {
	bySignal := lo.GroupBy(outcomes, func(o outcome) string {
		if o.err != nil {
			return "error"
		}
		return o.signal
	})
	signals := lo.Keys(bySignal)
	sort.Strings(signals)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Signal", "Sessions", "Messages", "Avg duration"})
	table.SetBorder(false)
	for _, signal := range signals {
		group := bySignal[signal]
		messages := lo.SumBy(group, func(o outcome) int { return o.messages })
		total := lo.SumBy(group, func(o outcome) time.Duration { return o.duration })
		table.Append([]string{
			signal,
			strconv.Itoa(len(group)),
			strconv.Itoa(messages),
			(total / time.Duration(len(group))).Round(time.Millisecond).String(),
		})
	}
	table.Render()

	for _, o := range outcomes {
		if o.err != nil {
			log.Println(o.err)
		}
	}
}
