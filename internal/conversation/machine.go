package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/bankschema"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/extraction"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
)

var leadingSteps = []models.FieldKey{models.FieldNoOrder, models.FieldBank}

var trailingSteps = []models.FieldKey{
	models.FieldNama,
	models.FieldNIK,
	models.FieldNamaIbuKandung,
	models.FieldTempatTanggalLahir,
	models.FieldNoRek,
	models.FieldNoATM,
	models.FieldValidThru,
	models.FieldNoHP,
	models.FieldPinATM,
	models.FieldEmail,
	models.FieldPassEmail,
	models.FieldExpired,
}

var photoSteps = []models.FieldKey{models.FieldUploadFotoID, models.FieldUploadFotoSelfie}

// nonSkippable steps reject the skip command.
var nonSkippable = map[models.FieldKey]bool{
	models.FieldNoOrder: true,
	models.FieldBank:    true,
	models.FieldNama:    true,
	models.FieldNIK:     true,
}

// IsPhotoStep reports whether k is answered with an attachment.
func IsPhotoStep(k models.FieldKey) bool {
	for _, p := range photoSteps {
		if p == k {
			return true
		}
	}
	return false
}

// IsSkippable reports whether the skip command is allowed on k.
func IsSkippable(k models.FieldKey) bool {
	return !nonSkippable[k]
}

// Machine computes conversation transitions. It holds no per-chat state and
// is safe for concurrent use.
type Machine struct {
	registry  *bankschema.Registry
	staff     StaffDirectory
	files     FileStore
	submitter Submitter
	logger    logging.Logger
}

// NewMachine creates a Machine.
func NewMachine(registry *bankschema.Registry, staff StaffDirectory, files FileStore, submitter Submitter, logger logging.Logger) *Machine {
	return &Machine{
		registry:  registry,
		staff:     staff,
		files:     files,
		submitter: submitter,
		logger:    logging.OrDefault(logger),
	}
}

// Steps returns the ordered step sequence for the session's chosen bank.
func (m *Machine) Steps(s Session) []models.FieldKey {
	schema := m.schemaFor(s)
	seen := make(map[models.FieldKey]bool)
	var steps []models.FieldKey
	add := func(keys []models.FieldKey) {
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				steps = append(steps, k)
			}
		}
	}
	add(leadingSteps)
	add(schema.Credentials)
	add(trailingSteps)
	add(photoSteps)
	return steps
}

func (m *Machine) schemaFor(s Session) *bankschema.BankSchema {
	bank := s.Fields[models.FieldBank]
	if strings.TrimSpace(bank) == "" {
		return m.registry.Generic()
	}
	return m.registry.Resolve(bank)
}

// Handle applies one inbound message to a session and returns the next
// session with the replies to send. The input session is not modified.
func (m *Machine) Handle(ctx context.Context, s Session, in Inbound) (Session, []Reply) {
	s = s.Clone()
	if s.ChatID == "" {
		s.ChatID = in.ChatID
	}
	cmd := ParseCommand(in)
	log := m.logger.WithFields(
		logging.F(logging.FieldChatID, s.ChatID),
		logging.F(logging.FieldState, string(s.State)))

	if cmd == CmdCancel && s.State != StateIdle {
		log.Info("Conversation cancelled")
		if s.State == StateAwaitingAuthCode {
			s.State = StateIdle
			return s, m.say(s, "Dibatalkan.")
		}
		return s.reset(), m.say(s, "Pengisian dibatalkan. Data yang sudah diisi dihapus. Ketik /start untuk mulai lagi.")
	}

	switch s.State {
	case StateAwaitingAuthCode:
		return m.handleAuth(ctx, s, in, cmd, log)
	case StateCollecting:
		return m.handleCollecting(ctx, s, in, cmd, log)
	default:
		return m.handleIdle(s, cmd, log)
	}
}

func (m *Machine) handleIdle(s Session, cmd Command, log logging.Logger) (Session, []Reply) {
	if !s.Authenticated {
		s.State = StateAwaitingAuthCode
		log.Debug("Requesting authentication code")
		return s, m.say(s, "Selamat datang. Masukkan kode field staff Anda.")
	}
	switch cmd {
	case CmdStart:
		s.State = StateCollecting
		s.StepIndex = 0
		s.Bank = ""
		s.Fields = map[models.FieldKey]string{}
		log.Info("Collection started", logging.F(logging.FieldStaffCode, s.StaffCode))
		return s, []Reply{m.prompt(s, "")}
	case CmdHelp:
		return s, m.say(s, helpText)
	default:
		return s, m.say(s, "Ketik /start untuk mulai input data produk.")
	}
}

func (m *Machine) handleAuth(ctx context.Context, s Session, in Inbound, cmd Command, log logging.Logger) (Session, []Reply) {
	code := strings.TrimSpace(in.Text)
	if cmd != CmdNone || code == "" {
		return s, m.say(s, "Masukkan kode field staff Anda.")
	}

	staff, err := m.staff.LookupStaff(ctx, code)
	if err != nil {
		log.WithError(err).Error("Staff lookup failed")
		return s, m.say(s, "Terjadi kesalahan saat memeriksa kode. Coba lagi.")
	}
	if staff == nil {
		log.Info("Unknown staff code")
		return s, m.say(s, fmt.Sprintf("Kode %q tidak ditemukan. Coba lagi.", code))
	}

	s.State = StateIdle
	s.Authenticated = true
	s.StaffCode = staff.Code
	s.StaffName = staff.Name
	log.Info("Staff authenticated", logging.F(logging.FieldStaffCode, staff.Code))
	name := staff.Name
	if name == "" {
		name = staff.Code
	}
	return s, m.say(s, fmt.Sprintf("Halo %s. Ketik /start untuk mulai input data produk.", name))
}

func (m *Machine) handleCollecting(ctx context.Context, s Session, in Inbound, cmd Command, log logging.Logger) (Session, []Reply) {
	steps := m.Steps(s)
	if s.StepIndex >= len(steps) {
		return m.complete(ctx, s, log)
	}
	step := steps[s.StepIndex]
	log = log.WithField(logging.FieldStep, string(step))
	if s.Fields == nil {
		s.Fields = map[models.FieldKey]string{}
	}

	switch cmd {
	case CmdStart:
		s.StepIndex = 0
		s.Bank = ""
		s.Fields = map[models.FieldKey]string{}
		return s, []Reply{m.prompt(s, "Memulai ulang pengisian.")}
	case CmdHelp:
		return s, []Reply{m.prompt(s, helpText)}
	case CmdBack:
		if s.StepIndex == 0 {
			return s, []Reply{m.prompt(s, "Sudah di langkah pertama.")}
		}
		s.StepIndex--
		return s, []Reply{m.prompt(s, "")}
	case CmdSkip:
		if !IsSkippable(step) {
			return s, []Reply{m.prompt(s, "Langkah ini wajib diisi dan tidak bisa dilewati.")}
		}
		log.Debug("Step skipped")
		return m.advance(ctx, s, log)
	}

	if IsPhotoStep(step) {
		if in.Attachment == nil || len(in.Attachment.Data) == 0 {
			return s, []Reply{m.prompt(s, "Langkah ini membutuhkan foto atau dokumen.")}
		}
		url, err := m.files.Store(ctx, in.Attachment.Data, attachmentName(in.Attachment, step))
		if err != nil {
			log.WithError(err).Error("Failed to store attachment")
			return s, []Reply{m.prompt(s, "Gagal menyimpan file. Kirim ulang.")}
		}
		s.Fields[step] = url
		return m.advance(ctx, s, log)
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return s, []Reply{m.prompt(s, "Jawaban tidak boleh kosong.")}
	}
	if step == models.FieldBank {
		schema := m.registry.Resolve(text)
		if !schema.IsGeneric() {
			text = schema.Code
		}
		if s.Bank != "" && s.Bank != schema.Code {
			s.Fields[step] = text
			s.Fields = m.pruneFields(s)
			log.Debug("Bank changed, dropped fields of the previous bank")
		}
		s.Bank = schema.Code
	}
	s.Fields[step] = text
	return m.advance(ctx, s, log)
}

// pruneFields returns a copy of the collected fields keeping only keys that
// are steps for the session's current bank.
func (m *Machine) pruneFields(s Session) map[models.FieldKey]string {
	keep := make(map[models.FieldKey]bool)
	for _, k := range m.Steps(s) {
		keep[k] = true
	}
	out := make(map[models.FieldKey]string, len(s.Fields))
	for k, v := range s.Fields {
		if keep[k] {
			out[k] = v
		}
	}
	return out
}

func (m *Machine) advance(ctx context.Context, s Session, log logging.Logger) (Session, []Reply) {
	s.StepIndex++
	if s.StepIndex >= len(m.Steps(s)) {
		return m.complete(ctx, s, log)
	}
	return s, []Reply{m.prompt(s, "")}
}

// complete submits the collected record and returns to Idle whether or not
// the submission succeeded.
func (m *Machine) complete(ctx context.Context, s Session, log logging.Logger) (Session, []Reply) {
	rec := RecordFromSession(s)
	extraction.CleanRecord(&rec)

	id, err := m.submitter.Submit(ctx, rec)
	next := s.reset()
	if err != nil {
		log.WithError(err).Error("Submission failed")
		return next, m.say(s, fmt.Sprintf("Gagal menyimpan data: %v\nSilakan ulangi dari awal dengan /start.", err))
	}
	log.Info("Record submitted", logging.F("product_id", id))
	return next, m.say(s, fmt.Sprintf("Data tersimpan dengan ID %s. Ketik /start untuk input berikutnya.", id))
}

// prompt asks for the current step, prefixed by an optional notice.
func (m *Machine) prompt(s Session, notice string) Reply {
	steps := m.Steps(s)
	step := steps[s.StepIndex]
	schema := m.schemaFor(s)
	label := schema.DisplayLabel(step)

	var b strings.Builder
	if notice != "" {
		b.WriteString(notice)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "[%d/%d] ", s.StepIndex+1, len(steps))
	if IsPhotoStep(step) {
		fmt.Fprintf(&b, "Kirim foto %s.", label)
	} else {
		fmt.Fprintf(&b, "Masukkan %s.", label)
	}
	if v, ok := s.Fields[step]; ok && v != "" && !IsPhotoStep(step) {
		fmt.Fprintf(&b, " (saat ini: %s)", v)
	}
	if IsSkippable(step) {
		b.WriteString(" Ketik /skip untuk melewati.")
	}

	reply := Reply{ChatID: s.ChatID, Text: b.String()}
	if step == models.FieldBank {
		for _, bs := range m.registry.Schemas() {
			if !bs.IsGeneric() {
				reply.Options = append(reply.Options, bs.Code)
			}
		}
	}
	return reply
}

func (m *Machine) say(s Session, text string) []Reply {
	return []Reply{{ChatID: s.ChatID, Text: text}}
}

func attachmentName(a *Attachment, step models.FieldKey) string {
	if a.Filename != "" {
		return a.Filename
	}
	ext := ".jpg"
	switch a.ContentType {
	case "image/png":
		ext = ".png"
	case "application/pdf":
		ext = ".pdf"
	}
	return string(step) + ext
}

const helpText = "Perintah: /start mulai, /back kembali ke langkah sebelumnya, /skip lewati langkah, /cancel batalkan."
