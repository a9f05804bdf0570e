package domain

// SkillStatus represents the lifecycle state of a skill record.
type SkillStatus string

const (
	SkillStatusDraft     SkillStatus = "draft"
	SkillStatusPublished SkillStatus = "published"
)

func (s SkillStatus) String() string { return string(s) }

func (s SkillStatus) IsValid() bool {
	switch s {
	case SkillStatusDraft, SkillStatusPublished:
		return true
	}
	return false
}

// DraftMode distinguishes drafts that will create a new skill from drafts
// editing an existing one.
type DraftMode string

const (
	DraftModeNew  DraftMode = "new"
	DraftModeEdit DraftMode = "edit"
)

func (m DraftMode) String() string { return string(m) }

func (m DraftMode) IsValid() bool {
	switch m {
	case DraftModeNew, DraftModeEdit:
		return true
	}
	return false
}

// FileOpKind represents the kind of file operation inside a change-set.
type FileOpKind string

const (
	FileOpUpsert FileOpKind = "upsert"
	FileOpDelete FileOpKind = "delete"
)

func (k FileOpKind) String() string { return string(k) }

func (k FileOpKind) IsValid() bool {
	switch k {
	case FileOpUpsert, FileOpDelete:
		return true
	}
	return false
}

// FileKind reports which content representation a skill file carries.
type FileKind string

const (
	FileKindText   FileKind = "text"
	FileKindBinary FileKind = "binary"
)

func (k FileKind) String() string { return string(k) }
