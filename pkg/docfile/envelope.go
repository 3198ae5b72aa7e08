package docfile

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	envelopeMagic   = "INKLINE_SEALED"
	envelopeVersion = uint16(2)

	flagCompressed = uint16(1 << 0)
	flagEncrypted  = uint16(1 << 1)

	DefaultKDFIterations = 200000
	maxKDFIterations     = 10_000_000
	keySize              = 32
)

// envelopeHeader follows the magic string. When the payload is encrypted the
// encoded magic and header are authenticated with it, so flags, cost and
// length cannot be altered without failing to open.
type envelopeHeader struct {
	Version    uint16
	Flags      uint16
	Iterations uint32
	Salt       [16]byte
	Nonce      [12]byte
	Length     uint64
}

var envelopeHeaderSize = len(envelopeMagic) + binary.Size(envelopeHeader{})

func (h envelopeHeader) has(flag uint16) bool { return h.Flags&flag != 0 }

func (h envelopeHeader) marshal() []byte {
	var buf bytes.Buffer
	buf.Grow(envelopeHeaderSize)
	buf.WriteString(envelopeMagic)
	_ = binary.Write(&buf, binary.LittleEndian, h)
	return buf.Bytes()
}

func isSecureEnvelope(b []byte) bool {
	return bytes.HasPrefix(b, []byte(envelopeMagic))
}

func parseEnvelopeHeader(b []byte) (envelopeHeader, error) {
	var h envelopeHeader
	if !isSecureEnvelope(b) || len(b) < envelopeHeaderSize {
		return h, ErrInvalidSecureFile
	}
	if err := binary.Read(bytes.NewReader(b[len(envelopeMagic):envelopeHeaderSize]), binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidSecureFile, err)
	}
	if h.Version != envelopeVersion {
		return h, fmt.Errorf("%w: envelope version %d", ErrUnsupportedVer, h.Version)
	}
	if h.Length != uint64(len(b)-envelopeHeaderSize) {
		return h, ErrInvalidSecureFile
	}
	if h.has(flagEncrypted) && (h.Iterations == 0 || h.Iterations > maxKDFIterations) {
		return h, fmt.Errorf("%w: key derivation cost %d", ErrInvalidSecureFile, h.Iterations)
	}
	return h, nil
}

func inspectEnvelopeBytes(b []byte) (EnvelopeInfo, error) {
	if !isSecureEnvelope(b) {
		return EnvelopeInfo{}, nil
	}
	h, err := parseEnvelopeHeader(b)
	if err != nil {
		return EnvelopeInfo{}, err
	}
	return EnvelopeInfo{
		Wrapped:     true,
		Compressed:  h.has(flagCompressed),
		Encrypted:   h.has(flagEncrypted),
		EnvelopeVer: h.Version,
	}, nil
}

func newGCM(password string, salt []byte, iterations int) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// sealEnvelope wraps an encoded container, compressing and then encrypting
// it as opts ask.
func sealEnvelope(container []byte, opts SaveOptions) ([]byte, error) {
	h := envelopeHeader{Version: envelopeVersion}
	payload := container
	if opts.Compression {
		h.Flags |= flagCompressed
		var err error
		if payload, err = compressBytes(payload); err != nil {
			return nil, fmt.Errorf("compress document: %w", err)
		}
	}
	if !opts.Encryption.Enabled {
		h.Length = uint64(len(payload))
		return append(h.marshal(), payload...), nil
	}

	h.Flags |= flagEncrypted
	iterations := opts.Encryption.Iterations
	if iterations <= 0 {
		iterations = DefaultKDFIterations
	}
	if iterations > maxKDFIterations {
		return nil, fmt.Errorf("docfile: key derivation cost %d above %d", iterations, maxKDFIterations)
	}
	h.Iterations = uint32(iterations)
	if _, err := io.ReadFull(rand.Reader, h.Salt[:]); err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, h.Nonce[:]); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	gcm, err := newGCM(opts.Encryption.Password, h.Salt[:], iterations)
	if err != nil {
		return nil, err
	}
	h.Length = uint64(len(payload) + gcm.Overhead())
	header := h.marshal()
	return gcm.Seal(header, h.Nonce[:], payload, header), nil
}

// openEnvelope returns the container held by a sealed file.
func openEnvelope(b []byte, opts LoadOptions) ([]byte, error) {
	h, err := parseEnvelopeHeader(b)
	if err != nil {
		return nil, err
	}
	header := b[:envelopeHeaderSize]
	payload := b[envelopeHeaderSize:]

	if h.has(flagEncrypted) {
		if strings.TrimSpace(opts.Password) == "" {
			return nil, ErrPasswordRequired
		}
		gcm, err := newGCM(opts.Password, h.Salt[:], int(h.Iterations))
		if err != nil {
			return nil, err
		}
		if payload, err = gcm.Open(nil, h.Nonce[:], payload, header); err != nil {
			return nil, ErrInvalidPassword
		}
	}
	if h.has(flagCompressed) {
		if payload, err = decompressBytes(payload); err != nil {
			return nil, fmt.Errorf("decompress document: %w", err)
		}
	}
	return payload, nil
}

func compressBytes(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(in); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressBytes(in []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
