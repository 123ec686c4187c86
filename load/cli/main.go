package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"

	"github.com/Blaxzter/secret-santa/internal/config"
)

const (
	defaultRate        = 5
	defaultDuration    = 60 * time.Second
	defaultResultsFile = "load/artifacts/results.bin"
	loadOwnerID        = "load-test"
)

var resultsFile = defaultResultsFile

// seedRoom комната, которую нагрузка перемешивает повторно.
type seedRoom struct {
	ID         string
	AdminToken string
}

func main() {
	cfg := loadTestDefaults()
	var (
		baseURL      = flag.String("url", cfg.BaseURL, "Base URL сервиса")
		rate         = flag.Int("rate", defaultRate, "Запросов в секунду")
		duration     = flag.Duration("duration", defaultDuration, "Длительность теста (например, 60s)")
		participants = flag.Int("participants", cfg.Participants, "Участников в каждой создаваемой комнате")
		setupOnly    = flag.Bool("setup-only", false, "Только подготовка окружения (создание комнаты)")
		report       = flag.Bool("report", false, "Показать отчёт из сохранённых результатов")
		plot         = flag.Bool("plot", false, "Сгенерировать HTML график из сохранённых результатов")
	)
	flag.Parse()

	if *report {
		showReport()
		return
	}
	if *plot {
		writePlotInstructions(os.Stdout)
		return
	}

	fmt.Println("=== Нагрузочное тестирование с Vegeta ===")
	fmt.Printf("URL: %s\n", *baseURL)
	fmt.Printf("Rate: %d req/s, duration: %s, participants: %d\n", *rate, *duration, *participants)
	fmt.Println()

	fmt.Println("1. Создание комнаты для перемешиваний...")
	seed, err := setupRoom(*baseURL, *participants)
	if err != nil {
		log.Fatalf("Ошибка при подготовке окружения: %v", err)
	}
	fmt.Printf("Комната %s создана\n", seed.ID)
	if *setupOnly {
		return
	}

	fmt.Println()
	fmt.Println("2. Запуск нагрузочного тестирования...")
	if err := runLoadTest(*baseURL, *rate, *duration, *participants, seed); err != nil {
		log.Fatalf("Ошибка при нагрузочном тестировании: %v", err)
	}

	fmt.Println()
	fmt.Println("=== Тестирование завершено ===")
	fmt.Println("Для детального анализа выполните:")
	fmt.Printf("  go run ./load/cli -report\n")
	fmt.Printf("  go run ./load/cli -plot\n")
}

// loadTestDefaults берёт base_url и participants из конфигурации сервиса.
func loadTestDefaults() config.LoadTestConfig {
	cfg, err := config.Load()
	if err != nil {
		return config.LoadTestConfig{BaseURL: "http://localhost:8080", Participants: 8}
	}
	return cfg.LoadTests
}

func participantNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Load Participant %d", i+1)
	}
	return names
}

func createRoomBody(name string, participants int) ([]byte, error) {
	return json.Marshal(map[string]any{
		"room_name":         name,
		"participant_names": participantNames(participants),
		"price_limit":       20,
		"currency":          "EUR",
		"language":          "en",
		"owner_id":          loadOwnerID,
	})
}

// setupRoom создаёт одну комнату через vegeta и возвращает её id и токен администратора.
func setupRoom(baseURL string, participants int) (seedRoom, error) {
	body, err := createRoomBody("Load seed room", participants)
	if err != nil {
		return seedRoom{}, fmt.Errorf("marshal payload: %w", err)
	}

	targeter := vegeta.NewStaticTargeter(vegeta.Target{
		Method: http.MethodPost,
		URL:    baseURL + "/rooms",
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	})

	var res *vegeta.Result
	for r := range vegeta.NewAttacker().Attack(targeter, vegeta.Rate{Freq: 1, Per: time.Second}, time.Second, "setup") {
		if res == nil {
			res = r
		}
	}
	if res == nil {
		return seedRoom{}, errors.New("setup request was not sent")
	}
	if res.Code != http.StatusCreated {
		return seedRoom{}, fmt.Errorf("не удалось создать комнату: статус %d: %s", res.Code, res.Body)
	}

	var created struct {
		Room struct {
			ID         string `json:"id"`
			AdminToken string `json:"admin_token"`
		} `json:"room"`
	}
	if err := json.Unmarshal(res.Body, &created); err != nil {
		return seedRoom{}, fmt.Errorf("decode setup response: %w", err)
	}
	if created.Room.ID == "" || created.Room.AdminToken == "" {
		return seedRoom{}, errors.New("setup response has no room id or admin token")
	}
	return seedRoom{ID: created.Room.ID, AdminToken: created.Room.AdminToken}, nil
}

// runLoadTest чередует создание комнат и перемешивание seed-комнаты.
func runLoadTest(baseURL string, rate int, duration time.Duration, participants int, seed seedRoom) error {
	if rate <= 0 {
		return fmt.Errorf("rate must be positive, got %d", rate)
	}
	targeter := newRoomTargeter(baseURL, participants, seed)

	attacker := vegeta.NewAttacker(
		vegeta.Timeout(30*time.Second),
		vegeta.Workers(uint64(rate)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), duration+5*time.Second)
	defer cancel()

	var metrics vegeta.Metrics
	var allResults []vegeta.Result
	results := attacker.Attack(targeter, vegeta.Rate{Freq: rate, Per: time.Second}, duration, "load-test")
collect:
	for {
		select {
		case res, ok := <-results:
			if !ok {
				break collect
			}
			metrics.Add(res)
			allResults = append(allResults, *res)
		case <-ctx.Done():
			attacker.Stop()
			break collect
		}
	}
	metrics.Close()

	if err := saveResults(allResults); err != nil {
		return fmt.Errorf("сохранить результаты: %w", err)
	}

	reporter := vegeta.NewTextReporter(&metrics)
	if err := reporter(os.Stdout); err != nil {
		return fmt.Errorf("сгенерировать отчёт: %w", err)
	}
	return nil
}

// newRoomTargeter нечётные запросы создают новую комнату, чётные перемешивают seed-комнату.
func newRoomTargeter(baseURL string, participants int, seed seedRoom) vegeta.Targeter {
	var counter atomic.Uint64
	return func(t *vegeta.Target) error {
		n := counter.Add(1)
		if n%2 == 0 {
			*t = vegeta.Target{
				Method: http.MethodPost,
				URL:    fmt.Sprintf("%s/rooms/%s/reshuffle", baseURL, seed.ID),
				Header: http.Header{"X-Admin-Token": []string{seed.AdminToken}},
			}
			return nil
		}

		body, err := createRoomBody(fmt.Sprintf("Load room %d", n), participants)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		*t = vegeta.Target{
			Method: http.MethodPost,
			URL:    baseURL + "/rooms",
			Header: http.Header{"Content-Type": []string{"application/json"}},
			Body:   body,
		}
		return nil
	}
}

// saveResults сохраняет результаты в бинарный файл
func saveResults(results []vegeta.Result) error {
	if err := os.MkdirAll(filepath.Dir(resultsFile), 0o755); err != nil {
		return fmt.Errorf("создать директорию: %w", err)
	}

	file, err := os.Create(resultsFile)
	if err != nil {
		return fmt.Errorf("создать файл: %w", err)
	}
	defer file.Close()

	encoder := vegeta.NewEncoder(file)
	for i := range results {
		if err := encoder.Encode(&results[i]); err != nil {
			return fmt.Errorf("записать результат: %w", err)
		}
	}

	fmt.Printf("Результаты сохранены в %s\n", resultsFile)
	return nil
}

func showReport() {
	if err := renderReport(os.Stdout, resultsFile); err != nil {
		log.Fatalf("Не удалось построить отчёт: %v", err)
	}
}

func renderReport(out io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open results: %w", err)
	}
	defer file.Close()

	decoder := vegeta.NewDecoder(file)
	var metrics vegeta.Metrics
	for {
		var res vegeta.Result
		if err := decoder.Decode(&res); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("decode result: %w", err)
		}
		metrics.Add(&res)
	}
	metrics.Close()

	return vegeta.NewTextReporter(&metrics)(out)
}

// writePlotInstructions HTML-график строится CLI-утилитой vegeta.
func writePlotInstructions(out io.Writer) {
	fmt.Fprintln(out, "Для генерации HTML графика используйте CLI утилиту vegeta:")
	fmt.Fprintf(out, "  vegeta plot %s > load/artifacts/plot.html\n", resultsFile)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Установка CLI утилиты:")
	fmt.Fprintln(out, "  go install github.com/tsenart/vegeta/v12@latest")
}
