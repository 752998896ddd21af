package ports

import "context"

type GraphRendererPort interface {
	RenderSVG(ctx context.Context, dot string) ([]byte, error)
}
