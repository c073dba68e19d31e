package webserver

import (
	"crypto/tls"
	"log"
	"os"
	"sync"
	"time"
)

// TLSReloader serves the current certificate pair and picks up renewed files
// (e.g. from an ACME client writing in place) without a restart.
type TLSReloader struct {
	certFile string
	keyFile  string
	mu       sync.RWMutex
	cert     *tls.Certificate
	lastMod  time.Time
}

func NewTLSReloader(certFile, keyFile string) (*TLSReloader, error) {
	r := &TLSReloader{certFile: certFile, keyFile: keyFile}
	if err := r.reload(); err != nil {
		return nil, err
	}
	go r.watch()
	return r, nil
}

func (r *TLSReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()

	if info, err := os.Stat(r.certFile); err == nil {
		r.lastMod = info.ModTime()
	}
	log.Printf("TLS certificates loaded")
	return nil
}

func (r *TLSReloader) watch() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		info, err := os.Stat(r.certFile)
		if err != nil {
			log.Printf("stat cert file: %v", err)
			continue
		}
		if info.ModTime().After(r.lastMod) {
			if err := r.reload(); err != nil {
				log.Printf("reload certificates: %v", err)
			}
		}
	}
}

func (r *TLSReloader) GetConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		GetCertificate: func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
			r.mu.RLock()
			defer r.mu.RUnlock()
			return r.cert, nil
		},
	}
}
