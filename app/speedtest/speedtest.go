// Package speedtest measures bulk transfer throughput against the
// Cloudflare speed endpoints.
package speedtest

import (
	"bytes"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultDownloadURL = "https://speed.cloudflare.com/__down?bytes=10000000"
	defaultUploadURL   = "https://speed.cloudflare.com/__up"
	uploadSize         = 5_000_000
	userAgent          = "WiFiScope/1.0"
)

// Result is one speed test run. A direction that failed records its
// error and leaves its rate at zero; the other direction still counts.
type Result struct {
	Success           bool    `json:"success"`
	DownloadMbps      float64 `json:"download_mbps"`
	UploadMbps        float64 `json:"upload_mbps"`
	DownloadBytes     int     `json:"download_bytes,omitempty"`
	UploadBytes       int     `json:"upload_bytes,omitempty"`
	DownloadDurationS float64 `json:"download_duration_s,omitempty"`
	UploadDurationS   float64 `json:"upload_duration_s,omitempty"`
	DownloadError     string  `json:"download_error,omitempty"`
	UploadError       string  `json:"upload_error,omitempty"`
}

// Tester runs timed download and upload transfers.
type Tester struct {
	client      *http.Client
	downloadURL string
	uploadURL   string
	log         *logrus.Entry
}

func New() *Tester {
	return &Tester{
		client:      &http.Client{Timeout: 30 * time.Second},
		downloadURL: defaultDownloadURL,
		uploadURL:   defaultUploadURL,
		log:         logrus.WithField("component", "speedtest"),
	}
}

// Run performs the download test then the upload test.
func (t *Tester) Run() Result {
	var res Result

	t.log.Info("starting download test")
	if n, elapsed, err := t.download(); err != nil {
		t.log.WithError(err).Warn("download test failed")
		res.DownloadError = err.Error()
	} else {
		res.DownloadBytes = n
		res.DownloadDurationS = round2(elapsed.Seconds())
		res.DownloadMbps = mbps(n, elapsed)
		res.Success = true
		t.log.WithField("mbps", res.DownloadMbps).Info("download test done")
	}

	t.log.Info("starting upload test")
	if elapsed, err := t.upload(); err != nil {
		t.log.WithError(err).Warn("upload test failed")
		res.UploadError = err.Error()
	} else {
		res.UploadBytes = uploadSize
		res.UploadDurationS = round2(elapsed.Seconds())
		res.UploadMbps = mbps(uploadSize, elapsed)
		res.Success = true
		t.log.WithField("mbps", res.UploadMbps).Info("upload test done")
	}

	return res
}

func (t *Tester) download() (int, time.Duration, error) {
	req, err := http.NewRequest(http.MethodGet, t.downloadURL, nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return 0, 0, err
	}
	return int(n), time.Since(start), nil
}

func (t *Tester) upload() (time.Duration, error) {
	payload := make([]byte, uploadSize)
	req, err := http.NewRequest(http.MethodPost, t.uploadURL, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/octet-stream")

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func mbps(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return round2(float64(n) * 8 / (elapsed.Seconds() * 1_000_000))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
