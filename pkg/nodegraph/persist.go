package nodegraph

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/document"
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/observability"
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/store"
)

// SaveScene stores the serialized scene as the next revision of docID and
// marks the scene saved. Like any scene operation it fails without writing
// when called from an event handler (*ReentrancyError) or after Dispose.
//
// Example:
//
//	st, _ := store.NewSQLiteStore("scenes.db")
//	info, err := nodegraph.SaveScene(ctx, st, "pipeline", scene)
func SaveScene(ctx context.Context, st store.Store, docID string, s *Scene) (store.Info, error) {
	if err := ctx.Err(); err != nil {
		return store.Info{}, err
	}

	ctx, span := s.cfg.spans.StartSaveSpan(ctx, docID)
	info, err := saveScene(ctx, st, docID, s)
	s.cfg.spans.EndSpanWithError(span, err)
	observability.LogStore(s.logger, "save", docID, info.Revision, err)
	return info, err
}

func saveScene(ctx context.Context, st store.Store, docID string, s *Scene) (store.Info, error) {
	if err := s.idle("save"); err != nil {
		return store.Info{}, err
	}
	doc, err := s.Serialize()
	if err != nil {
		return store.Info{}, fmt.Errorf("serialize scene: %w", err)
	}
	data, err := document.Marshal(doc)
	if err != nil {
		return store.Info{}, err
	}
	s.cfg.spans.AddSpanEvent(ctx, "document.encoded", attribute.Int("size_bytes", len(data)))

	info, err := st.Save(docID, data)
	if err != nil {
		return store.Info{}, fmt.Errorf("save %s: %w", docID, err)
	}
	s.cfg.metrics.RecordDocumentSize(ctx, "save", info.Size)

	if err := s.MarkSaved(); err != nil {
		return info, err
	}
	return info, nil
}

// LoadScene replaces the scene with the latest revision of docID.
// On any error the scene is unchanged.
func LoadScene(ctx context.Context, st store.Store, docID string, s *Scene) (store.Info, error) {
	var info store.Info
	err := loadScene(ctx, s, docID, 0, func() ([]byte, error) {
		data, latest, err := st.Load(docID)
		info = latest
		return data, err
	})
	return info, err
}

// LoadRevision replaces the scene with a specific revision of docID.
// On any error the scene is unchanged.
func LoadRevision(ctx context.Context, st store.Store, docID string, revision int64, s *Scene) error {
	return loadScene(ctx, s, docID, revision, func() ([]byte, error) {
		return st.LoadRevision(docID, revision)
	})
}

func loadScene(ctx context.Context, s *Scene, docID string, revision int64, fetch func() ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := s.cfg.spans.StartLoadSpan(ctx, docID, revision)
	err := func() error {
		if err := s.idle("load"); err != nil {
			return err
		}
		data, err := fetch()
		if err != nil {
			return fmt.Errorf("load %s: %w", docID, err)
		}
		s.cfg.metrics.RecordDocumentSize(ctx, "load", int64(len(data)))

		doc, err := document.Unmarshal(data)
		if err != nil {
			return malformed(err, "decode %s", docID)
		}
		s.cfg.spans.AddSpanEvent(ctx, "document.decoded",
			attribute.Int("nodes", len(doc.Nodes)),
			attribute.Int("edges", len(doc.Edges)),
		)
		return s.Deserialize(doc)
	}()
	s.cfg.spans.EndSpanWithError(span, err)
	observability.LogStore(s.logger, "load", docID, revision, err)
	return err
}
