// Package video encodes rendered frames into an H.264 file by piping
// raw RGBA data into a single ffmpeg process.
package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/ivlev/promo2video/internal/system"
	"golang.org/x/sync/errgroup"
)

// Params describes one encoding session.
type Params struct {
	Width   int
	Height  int
	FPS     int
	Quality int
	Encoder string // h264_videotoolbox, h264_nvenc или libx264
	Audio   string // путь к аудиодорожке, пустая строка = без звука
	Output  string
}

// FrameFunc returns the frame with the given index. The encoder takes
// ownership of the buffer and recycles it through the shared image pool.
type FrameFunc func(frame int) (*image.RGBA, error)

// ProgressFunc is called after each frame has been handed to ffmpeg.
type ProgressFunc func(done, total int)

// Encode pulls total frames from next and streams them into ffmpeg as raw
// RGBA. Rendering runs one goroutine ahead of the encoder so the CPU and
// the encoder stay busy at the same time.
func Encode(ctx context.Context, params Params, total int, next FrameFunc, progress ProgressFunc) error {
	if total <= 0 {
		return fmt.Errorf("нет кадров для кодирования")
	}
	if params.Encoder == "" {
		params.Encoder = "libx264"
	}

	args := buildFFmpegArgs(params)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	frames := make(chan *image.RGBA, 4)
	g, gctx := errgroup.WithContext(ctx)

	// Рендеринг кадров (CPU bound)
	g.Go(func() error {
		defer close(frames)
		for i := 0; i < total; i++ {
			img, err := next(i)
			if err != nil {
				return fmt.Errorf("render frame %d: %w", i, err)
			}
			select {
			case frames <- img:
			case <-gctx.Done():
				system.PutImage(img)
				return gctx.Err()
			}
		}
		return nil
	})

	// Запись в ffmpeg (encoder bound)
	g.Go(func() error {
		done := 0
		for img := range frames {
			err := writeRawRGBA(stdin, img)
			system.PutImage(img)
			if err != nil {
				return fmt.Errorf("write raw error: %w", err)
			}
			done++
			if progress != nil {
				progress(done, total)
			}
		}
		return nil
	})

	encodeErr := g.Wait()
	stdin.Close()
	for img := range frames {
		system.PutImage(img)
	}

	if encodeErr != nil {
		cmd.Wait()
		return encodeErr
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %v\nLog: %s", err, out.String())
	}
	return nil
}

func buildFFmpegArgs(p Params) []string {
	// Используем rawvideo через stdin для исключения I/O на диск
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		"-framerate", fmt.Sprintf("%d", p.FPS),
		"-i", "-",
	}

	if p.Audio != "" {
		args = append(args, "-i", p.Audio)
		args = append(args, "-map", "0:v", "-map", "1:a", "-c:a", "aac", "-shortest")
	}

	args = append(args,
		"-r", fmt.Sprintf("%d", p.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", p.Encoder,
	)

	// Качество в зависимости от энкодера
	switch p.Encoder {
	case "h264_videotoolbox":
		bitrate := p.Quality * 100 // кбит/с. 75 -> 7.5Мбит/с
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", p.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", p.Quality), "-preset", "medium")
	}

	args = append(args, p.Output)
	return args
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	// Проверяем, является ли изображение уже RGBA и имеет ли стандартный шаг (stride)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}
