package v1alpha1_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-spellcanon/internal/canon"
	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
	"github.com/KirkDiggler/rpg-spellcanon/internal/handlers/canon/v1alpha1"
	"github.com/KirkDiggler/rpg-spellcanon/internal/orchestrators/importer"
	importermock "github.com/KirkDiggler/rpg-spellcanon/internal/orchestrators/importer/mock"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockImporter *importermock.MockService
	handler      *v1alpha1.Handler
	ctx          context.Context
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockImporter = importermock.NewMockService(s.ctrl)

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		ImportService: s.mockImporter,
	})
	s.Require().NoError(err)
	s.handler = handler
	s.ctx = context.Background()
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) request(m map[string]any) *structpb.Struct {
	req, err := structpb.NewStruct(m)
	s.Require().NoError(err)
	return req
}

func (s *HandlerTestSuite) TestNewHandlerRequiresImporter() {
	_, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *HandlerTestSuite) TestAssemble() {
	record := map[string]any{
		"name":     "Magic Missile",
		"level":    1,
		"school":   "Evocation",
		"duration": "Instantaneous",
	}

	resp, err := s.handler.Assemble(s.ctx, s.request(map[string]any{"record": record}))
	s.Require().NoError(err)

	expected, err := canon.Assemble(canon.RawRecord{
		"name": "Magic Missile", "level": 1, "school": "Evocation", "duration": "Instantaneous",
	})
	s.Require().NoError(err)

	fields := resp.GetFields()
	s.Assert().Equal(expected.Hash, fields["hash"].GetStringValue())
	canonical := fields["canonical"].GetStructValue().AsMap()
	s.Assert().Equal("Magic Missile", canonical["name"])
	s.Assert().Equal("ARCANE", canonical["tradition"])
	s.Assert().Equal("legacy", fields["sources"].GetStructValue().AsMap()["duration"])
}

func (s *HandlerTestSuite) TestAssembleErrors() {
	_, err := s.handler.Assemble(s.ctx, s.request(map[string]any{}))
	s.Assert().Equal(codes.InvalidArgument, status.Code(err))

	_, err = s.handler.Assemble(s.ctx, s.request(map[string]any{"record": map[string]any{
		"name": "Detect Magic", "level": 1, "school": "Divination", "sphere": "Divination",
	}}))
	s.Assert().Equal(codes.InvalidArgument, status.Code(err))
}

func (s *HandlerTestSuite) TestFieldText() {
	resp, err := s.handler.FieldText(s.ctx, s.request(map[string]any{
		"field": "range",
		"value": map[string]any{"kind": "touch"},
	}))
	s.Require().NoError(err)
	s.Assert().Equal("Touch", resp.GetFields()["text"].GetStringValue())

	resp, err = s.handler.FieldText(s.ctx, s.request(map[string]any{
		"field": "experience_cost",
		"value": map[string]any{"kind": "fixed", "amount_xp": 100},
	}))
	s.Require().NoError(err)
	s.Assert().Equal("100 XP", resp.GetFields()["text"].GetStringValue())

	resp, err = s.handler.FieldText(s.ctx, s.request(map[string]any{
		"field": "material_components",
		"value": map[string]any{"name": "pearl", "gp_value": 100},
	}))
	s.Require().NoError(err)
	s.Assert().Equal("pearl (100 gp)", resp.GetFields()["text"].GetStringValue())

	_, err = s.handler.FieldText(s.ctx, s.request(map[string]any{"value": map[string]any{}}))
	s.Assert().Equal(codes.InvalidArgument, status.Code(err))

	_, err = s.handler.FieldText(s.ctx, s.request(map[string]any{
		"field": "school",
		"value": map[string]any{},
	}))
	s.Assert().Equal(codes.InvalidArgument, status.Code(err))
}

func (s *HandlerTestSuite) TestImportSpells() {
	s.mockImporter.EXPECT().
		ImportSpells(s.ctx, &importer.ImportSpellsInput{
			Records: []canon.RawRecord{{"name": "Sleep", "level": float64(1), "school": "Enchantment"}},
			Source:  "PHB",
		}).
		Return(&importer.ImportSpellsOutput{
			BatchID: "batch_1",
			Results: []*importer.RecordResult{
				{Index: 0, Name: "Sleep", Level: 1, Hash: "abc", Status: importer.StatusConflict, ConflictsWith: []string{"def"}},
			},
			Conflicts: 1,
		}, nil)

	resp, err := s.handler.ImportSpells(s.ctx, s.request(map[string]any{
		"records": []any{map[string]any{"name": "Sleep", "level": 1, "school": "Enchantment"}},
		"source":  "PHB",
	}))
	s.Require().NoError(err)

	out := resp.AsMap()
	s.Assert().Equal("batch_1", out["batch_id"])
	s.Assert().Equal(float64(1), out["conflicts"])
	results := out["results"].([]any)
	s.Require().Len(results, 1)
	first := results[0].(map[string]any)
	s.Assert().Equal("conflict", first["status"])
	s.Assert().Equal([]any{"def"}, first["conflicts_with"])
}

func (s *HandlerTestSuite) TestImportSpellsErrors() {
	_, err := s.handler.ImportSpells(s.ctx, s.request(map[string]any{}))
	s.Assert().Equal(codes.InvalidArgument, status.Code(err))

	_, err = s.handler.ImportSpells(s.ctx, s.request(map[string]any{"records": []any{"nope"}}))
	s.Assert().Equal(codes.InvalidArgument, status.Code(err))

	s.mockImporter.EXPECT().
		ImportSpells(s.ctx, gomock.Any()).
		Return(nil, errors.Unavailable("redis down"))
	_, err = s.handler.ImportSpells(s.ctx, s.request(map[string]any{"records": []any{}}))
	s.Assert().Equal(codes.Unavailable, status.Code(err))
}

func (s *HandlerTestSuite) TestServiceDescRoundTrip() {
	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	v1alpha1.RegisterCanonServiceServer(server, s.handler)
	go func() {
		_ = server.Serve(lis)
	}()
	defer server.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	defer conn.Close()

	client := v1alpha1.NewCanonServiceClient(conn)
	resp, err := client.FieldText(s.ctx, s.request(map[string]any{
		"field": "components",
		"value": map[string]any{"verbal": true, "somatic": true},
	}))
	s.Require().NoError(err)
	s.Assert().Equal("V, S", resp.GetFields()["text"].GetStringValue())

	_, err = client.FieldText(s.ctx, s.request(map[string]any{"value": map[string]any{}}))
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	var callErr *errors.Error
	s.Require().True(errors.As(err, &callErr))
	s.Assert().Equal("field is required", callErr.Message)

	s.mockImporter.EXPECT().
		ImportSpells(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("redis down").WithMeta("store", "redis"))
	_, err = client.ImportSpells(s.ctx, s.request(map[string]any{"records": []any{}}))
	s.Assert().True(errors.IsUnavailable(err))
	s.Assert().Equal("redis", errors.GetMeta(err)["store"])
}
