// SPDX-License-Identifier: Apache-2.0

// Package certs generates the self-signed CA and server certificate pair
// that enables HTTPS on a local development server.
package certs

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"

	"github.com/CLAV88/office-addin/pkg/errdefs"
)

const (
	// DefaultDays is the validity period for generated certificates
	DefaultDays = 365
	// DefaultKeyBits is the key size used when none is requested
	DefaultKeyBits = 2048
	// ServerKeyBits is the key size for the server certificate
	ServerKeyBits = 4096

	// CACommonName is the subject of the local development CA
	CACommonName = "localhost-ca"
	// ServerCommonName is the subject of the local development server cert
	ServerCommonName = "localhost"
)

// Options parameterizes a single certificate generation
type Options struct {
	CommonName    string
	Days          int
	SelfSigned    bool   // true for the CA; false requires signer material
	SignerKeyPEM  string // CA private key, PEM, when SelfSigned is false
	SignerCertPEM string // CA certificate, PEM, when SelfSigned is false
	KeyBits       int
}

// Bundle holds the PEM-encoded output of one generation
type Bundle struct {
	ServiceKey  string
	Certificate string
	CSR         string // empty for self-signed generations
}

// Generate produces a key and certificate per opts. Self-signed requests
// yield a CA certificate; signed requests additionally yield the CSR.
func Generate(opts Options) (*Bundle, error) {
	const op = "generate certificate"

	if opts.CommonName == "" {
		return nil, errdefs.New(errdefs.KindCertificate, op, "common name is required")
	}
	if !opts.SelfSigned && (opts.SignerKeyPEM == "" || opts.SignerCertPEM == "") {
		return nil, errdefs.New(errdefs.KindCertificate, op, "signer key and certificate are required")
	}

	days := opts.Days
	if days <= 0 {
		days = DefaultDays
	}
	bits := opts.KeyBits
	if bits <= 0 {
		bits = DefaultKeyBits
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.KindCertificate, op, err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, errdefs.Wrap(errdefs.KindCertificate, op, err)
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: opts.CommonName},
		NotBefore:    now,
		NotAfter:     now.AddDate(0, 0, days),
	}

	bundle := &Bundle{
		ServiceKey: encodePEM("RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key)),
	}

	var certDER []byte
	if opts.SelfSigned {
		template.IsCA = true
		template.BasicConstraintsValid = true
		template.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature

		certDER, err = x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
		if err != nil {
			return nil, errdefs.Wrap(errdefs.KindCertificate, op, err)
		}
	} else {
		signerKey, signerCert, err := parseSigner(opts.SignerKeyPEM, opts.SignerCertPEM)
		if err != nil {
			return nil, errdefs.Wrap(errdefs.KindCertificate, op, err)
		}

		template.KeyUsage = x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment
		template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}
		template.DNSNames = []string{opts.CommonName}
		// Loopback SANs so modern TLS stacks accept the cert when
		// the dev server is addressed by IP.
		template.IPAddresses = []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback}

		csrDER, err := x509.CreateCertificateRequest(rand.Reader, &x509.CertificateRequest{
			Subject:     template.Subject,
			DNSNames:    template.DNSNames,
			IPAddresses: template.IPAddresses,
		}, key)
		if err != nil {
			return nil, errdefs.Wrap(errdefs.KindCertificate, op, err)
		}
		bundle.CSR = encodePEM("CERTIFICATE REQUEST", csrDER)

		certDER, err = x509.CreateCertificate(rand.Reader, template, signerCert, &key.PublicKey, signerKey)
		if err != nil {
			return nil, errdefs.Wrap(errdefs.KindCertificate, op, err)
		}
	}

	bundle.Certificate = encodePEM("CERTIFICATE", certDER)
	return bundle, nil
}

func parseSigner(keyPEM, certPEM string) (*rsa.PrivateKey, *x509.Certificate, error) {
	keyBlock, _ := pem.Decode([]byte(keyPEM))
	if keyBlock == nil {
		return nil, nil, fmt.Errorf("signer key is not valid PEM")
	}
	key, err := x509.ParsePKCS1PrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse signer key: %w", err)
	}

	certBlock, _ := pem.Decode([]byte(certPEM))
	if certBlock == nil {
		return nil, nil, fmt.Errorf("signer certificate is not valid PEM")
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse signer certificate: %w", err)
	}

	return key, cert, nil
}

func encodePEM(blockType string, der []byte) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}))
}
