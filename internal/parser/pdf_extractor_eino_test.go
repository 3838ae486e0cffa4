package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromFileNotFound(t *testing.T) {
	ctx := context.Background()
	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err)

	_, _, err = extractor.ExtractFromFile(ctx, "testdata/does-not-exist.pdf")

	require.Error(t, err)
	// 打开失败是提取错误，不是"无文本"哨兵
	assert.False(t, errors.Is(err, ErrNoTextContent))
}

func TestExtractTextFromBytesInvalidPDF(t *testing.T) {
	ctx := context.Background()
	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err)

	_, _, err = extractor.ExtractTextFromBytes(ctx, []byte("not a pdf at all"), "garbage.bin")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoTextContent))
}
