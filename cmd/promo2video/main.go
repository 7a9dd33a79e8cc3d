package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ivlev/promo2video/internal/asset"
	"github.com/ivlev/promo2video/internal/audio"
	"github.com/ivlev/promo2video/internal/engine"
	"github.com/ivlev/promo2video/internal/project"
	"github.com/ivlev/promo2video/internal/surface"
	"github.com/ivlev/promo2video/internal/system"
	"github.com/ivlev/promo2video/internal/text"
	"github.com/ivlev/promo2video/internal/video"
)

// buildVersion подставляется при сборке через -ldflags "-X main.buildVersion=..."
var buildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	dirs := []string{"projects", "input/audio", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	projectPtr := flag.String("project", "", "Путь к YAML-проекту (по умолчанию: самый свежий файл в projects/)")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	widthPtr := flag.Int("width", 0, "Ширина (0 - из проекта)")
	heightPtr := flag.Int("height", 0, "Высота (0 - из проекта)")
	fpsPtr := flag.Int("fps", 0, "FPS (0 - из проекта)")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	audioPtr := flag.String("audio", "", "Путь к аудио (по умолчанию: из проекта, иначе самый свежий файл в input/audio/)")
	audioSyncPtr := flag.Bool("audio-sync", true, "Синхронизировать длительность видео с аудио")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	demoPtr := flag.Bool("demo", false, "Сгенерировать демо-проект в projects/ и выйти")
	previewPtr := flag.Bool("preview", false, "Проиграть проект в реальном времени без записи видео")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")

	flag.Parse()

	if *demoPtr {
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		path := filepath.Join("projects", fmt.Sprintf("demo_%s.yaml", timestamp))
		if err := project.Write(project.Demo(), path); err != nil {
			log.Fatalf("[-] Ошибка записи демо-проекта: %v", err)
		}
		fmt.Printf("[+++] Успех! Проект сохранен: %s\n", path)
		return
	}

	projectPath := *projectPtr
	if projectPath == "" {
		latest, err := system.FindLatestProject("projects")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите YAML-проект в projects/ или запустите с -demo", err)
		}
		projectPath = latest
		fmt.Printf("[*] Выбран проект: %s\n", projectPath)
	}

	proj, err := project.Read(projectPath)
	if err != nil {
		log.Fatalf("[-] Ошибка чтения проекта: %v", err)
	}
	proj.Normalize()

	// Переопределения из флагов поверх значений проекта
	switch *presetPtr {
	case "16:9":
		proj.Width, proj.Height = 1920, 1080
	case "9:16":
		proj.Width, proj.Height = 1080, 1920
	case "4:5":
		proj.Width, proj.Height = 1080, 1350
	}
	if *widthPtr > 0 {
		proj.Width = *widthPtr
	}
	if *heightPtr > 0 {
		proj.Height = *heightPtr
	}
	if *fpsPtr > 0 {
		proj.FPS = *fpsPtr
	}

	// Обработка аудио
	if *audioPtr != "" {
		proj.Audio.Path = *audioPtr
	}
	if proj.Audio.Path == "" {
		if latest, err := system.FindLatestAudio("input/audio"); err == nil {
			proj.Audio.Path = latest
			fmt.Printf("[*] Выбрано аудио: %s\n", latest)
		}
	}
	if proj.Audio.Path != "" && *audioSyncPtr {
		audioDur, err := system.GetAudioDuration(proj.Audio.Path)
		if err == nil {
			proj.Duration = audioDur
			fmt.Printf("[*] Длительность видео установлена по аудио: %.2fs\n", audioDur)
		} else {
			log.Printf("[!] Не удалось получить длительность аудио: %v", err)
		}
	}

	caps := system.Detect()
	fmt.Printf("[*] Система: %s\n", caps)
	if caps.Encoder != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", caps.Encoder)
	}

	quality := *qualityPtr
	if quality == 0 {
		switch caps.Encoder {
		case "h264_videotoolbox":
			quality = 75 // Хорошее качество для VideoToolbox
		case "h264_nvenc":
			quality = 28 // Эквивалент CRF для NVENC
		default:
			quality = 23 // Стандартный CRF для x264
		}
	}

	canvas := surface.NewCanvas(proj.Width, proj.Height, text.NewBasic())
	orch, err := engine.NewOrchestrator(engine.Config{
		Surface:      canvas,
		Assets:       asset.NewStore(cacheLimit(caps.Tier)),
		Capabilities: caps,
	})
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации: %v", err)
	}
	defer orch.Close()

	if err := orch.LoadProject(context.Background(), proj); err != nil {
		log.Fatalf("[-] Ошибка загрузки проекта: %v", err)
	}
	fmt.Printf("[*] Проект загружен: %q, %dx%d, %d fps, %.2fs, слоев: %d\n",
		proj.Name, proj.Width, proj.Height, proj.FPS, proj.Duration, len(proj.Layers))

	if *previewPtr {
		if err := runPreview(orch); err != nil {
			log.Fatalf("[-] Ошибка предпросмотра: %v", err)
		}
		return
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		base := strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
		cleanName := strings.ReplaceAll(base, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
	}

	if err := runExport(orch, finalOutput, quality, *statsPtr, projectPath); err != nil {
		log.Fatalf("[-] Ошибка экспорта: %v", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", finalOutput)
}

// cacheLimit выбирает размер кэша ассетов по классу машины.
func cacheLimit(tier string) int {
	switch tier {
	case "high":
		return 256
	case "medium":
		return 128
	default:
		return 64
	}
}

func runExport(o *engine.Orchestrator, output string, quality int, stats bool, projectPath string) error {
	proj := o.Project()
	total := o.FrameCount()

	fmt.Printf("[*] Экспорт %d кадров в %s...\n", total, output)

	if err := o.SetExportMode(true); err != nil {
		return err
	}
	defer o.SetExportMode(false)

	params := video.Params{
		Width:   proj.Width,
		Height:  proj.Height,
		FPS:     proj.FPS,
		Quality: quality,
		Encoder: o.Capabilities().Encoder,
		Audio:   proj.Audio.Path,
		Output:  output,
	}

	// renderTime копится в горутине рендеринга и читается после Encode
	var renderTime time.Duration
	next := func(frame int) (*image.RGBA, error) {
		start := time.Now()
		img, err := o.ExportFrame(frame)
		renderTime += time.Since(start)
		return img, err
	}

	step := total / 10
	if step == 0 {
		step = 1
	}
	progress := func(done, totalFrames int) {
		if done%step == 0 || done == totalFrames {
			fmt.Printf("[>] Ready: %d/%d\n", done, totalFrames)
		}
	}

	startTime := time.Now()
	if err := video.Encode(context.Background(), params, total, next, progress); err != nil {
		return err
	}
	totalTime := time.Since(startTime)

	if stats {
		encodeTime := totalTime - renderTime
		fps := float64(total) / totalTime.Seconds()
		report := fmt.Sprintf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Build: %s\n"+
				"Total Time: %.2fs\n"+
				"Rendering (CPU): %.2fs\n"+
				"Encoding (GPU/CPU): %.2fs\n"+
				"Effective FPS: %.2f\n"+
				"----------------------------\n",
			buildVersion, totalTime.Seconds(), renderTime.Seconds(), encodeTime.Seconds(), fps,
		)
		fmt.Print(report)

		// Логирование в файл
		logEntry := fmt.Sprintf("[%s] Build: %s | Project: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f\n",
			time.Now().Format("2006-01-02 15:04:05"),
			buildVersion,
			filepath.Base(projectPath),
			total,
			totalTime.Seconds(),
			renderTime.Seconds(),
			encodeTime.Seconds(),
			fps,
		)

		f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			f.WriteString(logEntry)
			f.Close()
		} else {
			fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
		}
	}

	return nil
}

// runPreview проигрывает таймлайн в реальном времени без записи видео,
// озвучивая дорожку проекта через системный аудиовыход.
func runPreview(o *engine.Orchestrator) error {
	fmt.Println("[*] Режим предпросмотра (без записи видео)...")

	var player *oto.Player
	if path := o.Project().Audio.Path; path != "" {
		src, err := audio.NewFileSource(path)
		if err != nil {
			log.Printf("[!] Аудио недоступно для воспроизведения: %v", err)
		} else {
			op := &oto.NewContextOptions{
				SampleRate:   src.SampleRate(),
				ChannelCount: 2,
				Format:       oto.FormatSignedInt16LE,
			}
			otoCtx, ready, err := oto.NewContext(op)
			if err != nil {
				log.Printf("[!] Не удалось открыть аудиоустройство: %v", err)
			} else {
				<-ready
				player = otoCtx.NewPlayer(src.PCMReader())
			}
		}
	}

	if err := o.Play(); err != nil {
		return err
	}
	if player != nil {
		player.Play()
		defer player.Close()
	}

	duration := o.Project().Duration
	start := time.Now()
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	lastSecond := -1
	for now := range ticker.C {
		if err := o.Tick(now); err != nil {
			return err
		}
		if s := int(time.Since(start).Seconds()); s != lastSecond {
			lastSecond = s
			fmt.Printf("[>] %6.2fs / %.2fs\n", o.Time(), duration)
		}
		if time.Since(start).Seconds() >= duration {
			break
		}
	}
	return o.Pause()
}
