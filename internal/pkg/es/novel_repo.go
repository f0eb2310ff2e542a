package es

import (
	"context"
	"errors"
	"strconv"

	"Inkstone/internal/pkg/util"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/conflicts"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type NovelRepo interface {
	SearchNovels(ctx context.Context, queryText string, status int8, from, size int) ([]*NovelES, error)
	GetSuggestions(ctx context.Context, keyword string) ([]string, error)
	GetNovelById(ctx context.Context, id uint64) (*NovelES, error)
	GetNovelsByTag(ctx context.Context, tag string, from, size int) ([]*NovelES, error)
	GetLatestNovels(ctx context.Context, from, size int) ([]*NovelES, error)
	IndexNovel(ctx context.Context, novel *NovelES, version int64) error
	DeleteNovel(ctx context.Context, id uint64) error
	UpdateAuthorDetail(ctx context.Context, authorID uint64, newNickname string) error
}

type NovelRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewNovelRepo(client *elasticsearch.TypedClient) NovelRepo {
	return &NovelRepoImpl{client: client}
}

// SearchNovels 全文检索，status 为 -1 时不过滤状态
func (s *NovelRepoImpl) SearchNovels(ctx context.Context, queryText string, status int8, from, size int) ([]*NovelES, error) {
	if from >= MaxSearchDepth {
		return []*NovelES{}, nil
	}

	boolQuery := &types.BoolQuery{
		Should: []types.Query{
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:  queryText,
					Fields: []string{"title^3", "title.pinyin^1", "synopsis^1", "author_nickname^2", "tags^2"},
					Boost:  util.PtrFloat32(2.0),
				},
			},
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:     queryText,
					Fields:    []string{"title", "synopsis"},
					Fuzziness: util.PtrStr("AUTO"),
					Boost:     util.PtrFloat32(0.5),
				},
			},
		},
	}
	if status >= 0 {
		boolQuery.Filter = []types.Query{{
			Term: map[string]types.TermQuery{
				"status": {Value: status},
			},
		}}
	}

	req := s.client.Search().
		Index(NovelIndex).
		Query(&types.Query{Bool: boolQuery}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *NovelRepoImpl) GetSuggestions(ctx context.Context, keyword string) ([]string, error) {
	suggestKey := "novel-suggest"

	suggester := types.NewSuggester()
	suggester.Suggesters[suggestKey] = types.FieldSuggester{
		Prefix: &keyword,
		Completion: &types.CompletionSuggester{
			Field: "title.suggestion",
			Fuzzy: &types.SuggestFuzziness{
				Fuzziness: util.PtrStr("AUTO"),
			},
			Size: util.PtrInt(5),
		},
	}

	res, err := s.client.Search().
		Index(NovelIndex).
		Suggest(suggester).
		Size(0).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0)
	if results, ok := res.Suggest[suggestKey]; ok {
		for _, r := range results {
			if cs, ok := r.(*types.CompletionSuggest); ok {
				for _, opt := range cs.Options {
					suggestions = append(suggestions, opt.Text)
				}
			}
		}
	}
	return suggestions, nil
}

func (s *NovelRepoImpl) GetNovelById(ctx context.Context, id uint64) (*NovelES, error) {
	docID := strconv.FormatUint(id, 10)
	result, err := s.client.Get(NovelIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil, nil
			}
		}
		return nil, err
	}
	if result.Source_ == nil {
		return nil, nil
	}
	var novel NovelES
	if err = json.Unmarshal(result.Source_, &novel); err != nil {
		return nil, err
	}
	if novel.Tags == nil {
		novel.Tags = make([]string, 0)
	}
	return &novel, nil
}

func (s *NovelRepoImpl) GetNovelsByTag(ctx context.Context, tag string, from, size int) ([]*NovelES, error) {
	req := s.client.Search().
		Index(NovelIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"tags": {Value: tag},
			},
		}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"updated_at": {Order: &sortorder.Desc},
		}}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

// GetLatestNovels 获取最近更新的小说列表
func (s *NovelRepoImpl) GetLatestNovels(ctx context.Context, from, size int) ([]*NovelES, error) {
	req := s.client.Search().
		Index(NovelIndex).
		Query(&types.Query{
			MatchAll: &types.MatchAllQuery{},
		}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"updated_at": {Order: &sortorder.Desc},
		}}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

// IndexNovel 以外部版本号写入，旧版本写入冲突时静默丢弃
func (s *NovelRepoImpl) IndexNovel(ctx context.Context, novel *NovelES, version int64) error {
	docID := strconv.FormatUint(novel.ID, 10)

	_, err := s.client.Index(NovelIndex).
		Id(docID).
		Document(novel).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *NovelRepoImpl) DeleteNovel(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(NovelIndex, docID).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

// UpdateAuthorDetail 作者改昵称后批量刷新其作品文档
func (s *NovelRepoImpl) UpdateAuthorDetail(ctx context.Context, authorID uint64, newNickname string) error {
	nicknameJSON, _ := json.Marshal(newNickname)

	params := map[string]json.RawMessage{
		"new_nickname": json.RawMessage(nicknameJSON),
	}

	scriptSource := "ctx._source.author_nickname = params.new_nickname;"

	req := s.client.UpdateByQuery(NovelIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"author_id": {Value: authorID},
			},
		}).
		Script(&types.Script{
			Source: &scriptSource,
			Params: params,
		}).
		Conflicts(conflicts.Proceed)

	resp, err := req.Do(ctx)
	if err != nil {
		return err
	}

	if len(resp.Failures) != 0 {
		return errors.New("Novel Index: Update Author Detail Has Failures")
	}

	return nil
}

func (s *NovelRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*NovelES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*NovelES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var novel NovelES
		if hit.Source_ == nil {
			continue
		}
		if err = json.Unmarshal(hit.Source_, &novel); err != nil {
			continue
		}
		if len(hit.Sort) > 0 {
			novel.Sort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				novel.Sort[i] = v
			}
		}
		results = append(results, &novel)
	}
	return results, nil
}
